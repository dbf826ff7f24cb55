package crypto

import (
	"github.com/iov-one/custody/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// DefaultPathPrefix is the SLIP-0010 path prefix for custody keys.
// Every segment is hardened, as ed25519 requires.
const DefaultPathPrefix = "m/44'/234'"

// DeriveKey derives an ed25519 private key from seed following the
// SLIP-0010 path, for example "m/44'/234'/0'".
func DeriveKey(seed []byte, path string) (*PrivateKey, error) {
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive %s: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}
