package escrow

import (
	"github.com/iov-one/custody/errors"
)

// escrow reserves 1100 ~ 1109.
var (
	// ErrAlreadyInitialized is returned when a live escrow already occupies
	// the derived custody address.
	ErrAlreadyInitialized = errors.Register(1100, "escrow already initialized")

	// ErrAddressMismatch is returned when the custody address recomputed
	// from the parties and the bump is not the one the caller named.
	ErrAddressMismatch = errors.Register(1101, "custody address mismatch")
)
