package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivKeyEd25519()
	public := private.PublicKey()

	msg := []byte("initialize")
	msg2 := []byte("payer_confirm")

	sig, err := private.Sign(msg)
	require.NoError(t, err)
	sig2, err := private.Sign(msg2)
	require.NoError(t, err)

	bz, err := sig.Marshal()
	require.NoError(t, err)
	bz2, err := sig2.Marshal()
	require.NoError(t, err)
	assert.False(t, bytes.Equal(bz, bz2), "different signatures share a binary form")

	assert.True(t, public.Verify(msg, sig))
	assert.True(t, public.Verify(msg2, sig2))
	assert.False(t, public.Verify(msg, sig2))
	assert.False(t, public.Verify(msg2, sig))
	assert.False(t, public.Verify(msg, &Signature{}))
	assert.False(t, public.Verify(msg, nil))

	other := GenPrivKeyEd25519().PublicKey()
	assert.False(t, other.Verify(msg, sig))
}

func TestKeyEncoding(t *testing.T) {
	private := PrivKeyEd25519FromSeed(bytes.Repeat([]byte{7}, 32))
	public := private.PublicKey()
	require.NoError(t, public.Validate())
	assert.Len(t, public.Address(), 32)

	bz, err := public.Marshal()
	require.NoError(t, err)
	var pub PublicKey
	require.NoError(t, pub.Unmarshal(bz))
	assert.Equal(t, public.Ed25519, pub.Ed25519)

	bz, err = private.Marshal()
	require.NoError(t, err)
	var priv PrivateKey
	require.NoError(t, priv.Unmarshal(bz))
	assert.Equal(t, private.Ed25519, priv.Ed25519)

	// same seed, same key
	assert.Equal(t, public, PrivKeyEd25519FromSeed(bytes.Repeat([]byte{7}, 32)).PublicKey())

	assert.Error(t, (&PublicKey{Ed25519: []byte{1, 2}}).Validate())
	_, err = (&PrivateKey{}).Sign([]byte("x"))
	assert.Error(t, err)
}
