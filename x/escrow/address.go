package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
)

// DeriveAddress returns the custody address of the escrow between payer
// and receiver together with its bump. The result depends only on its
// arguments.
func DeriveAddress(receiver, payer, program custody.Address) (custody.Address, uint8, error) {
	return crypto.FindProgramAddress(program, receiver, payer)
}

// VerifyAddress recomputes the custody address from the parties and bump
// and compares it with the one given.
func VerifyAddress(receiver, payer, program custody.Address, bump uint8, holding custody.Address) error {
	addr, err := crypto.CreateProgramAddress(program, receiver, payer, []byte{bump})
	if err != nil {
		return errors.Wrapf(ErrAddressMismatch, "bump %d: %s", bump, err)
	}
	if !addr.Equals(holding) {
		return errors.Wrapf(ErrAddressMismatch, "expected %s, got %s", addr, holding)
	}
	return nil
}
