package custodytest

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
)

// NewKey returns a fresh random signer.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewAddress returns the address of a fresh random key.
func NewAddress() custody.Address {
	return NewKey().PublicKey().Address()
}

// SequenceAddress returns a deterministic, valid address built from n.
// It is handy when test output has to be stable.
func SequenceAddress(n byte) custody.Address {
	addr := make(custody.Address, custody.AddressLength)
	for i := range addr {
		addr[i] = n
	}
	return addr
}
