package crypto

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const (
	// MaxSeeds is the maximum number of seeds, bump included, hashed
	// into a program address.
	MaxSeeds = 16

	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

// programAddressMarker separates program derived addresses from any
// other sha256 digest of the same seeds.
var programAddressMarker = []byte("ProgramDerivedAddress")

// ErrOnCurve is returned when seeds hash to a valid ed25519 public key,
// for which a private key might exist.
var ErrOnCurve = errors.Register(20, "address on ed25519 curve")

// CreateProgramAddress hashes seeds together with the program identity
// into an address. The result is rejected when it lies on the ed25519
// curve, so a valid program address never has a private key.
//
// The bump seed, if any, must be passed as the last seed.
func CreateProgramAddress(program custody.Address, seeds ...[]byte) (custody.Address, error) {
	if len(seeds) > MaxSeeds {
		return nil, errors.Wrapf(errors.ErrInput, "%d seeds, max %d", len(seeds), MaxSeeds)
	}
	h := sha256.New()
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return nil, errors.Wrapf(errors.ErrInput, "seed %d is %d bytes long, max %d", i, len(s), MaxSeedLength)
		}
		h.Write(s)
	}
	h.Write(program)
	h.Write(programAddressMarker)
	digest := h.Sum(nil)

	if IsOnCurve(digest) {
		return nil, errors.Wrap(ErrOnCurve, "invalid seeds")
	}
	return custody.Address(digest), nil
}

// FindProgramAddress searches for the highest bump seed that, appended
// to seeds, produces a valid program address. The search starts at 255
// and goes down.
func FindProgramAddress(program custody.Address, seeds ...[]byte) (custody.Address, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		addr, err := CreateProgramAddress(program, withBump...)
		switch {
		case err == nil:
			return addr, uint8(bump), nil
		case ErrOnCurve.Is(err):
			continue
		default:
			return nil, 0, err
		}
	}
	return nil, 0, errors.Wrap(errors.ErrState, "no viable bump seed")
}

// IsOnCurve returns true if b decodes to a point on the ed25519 curve.
func IsOnCurve(b []byte) bool {
	if len(b) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
