package sigs

import (
	"github.com/iov-one/custody/errors"
)

// ErrInvalidSequence is returned when a signature does not carry the
// sequence expected for its signer.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
