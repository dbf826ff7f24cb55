// Package sigs authenticates transactions by their ed25519 signatures and
// keeps a sequence number per signer to block replays.
package sigs

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// signatureVerifyCost is charged on CheckTx for every verified signature.
const signatureVerifyCost = 500

// RegisterQuery exposes signer sequences under "/auth".
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies all signatures of a transaction and stores the
// signers in the context for Authenticate to find. Verification bumps
// the sequence of every signer.
type Decorator struct {
	optional bool
}

var _ custody.Decorator = Decorator{}

// NewDecorator requires at least one valid signature.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs lets unsigned transactions through with no signers.
// Signatures that are present must still be valid.
func (d Decorator) AllowMissingSigs() Decorator {
	d.optional = true
	return d
}

func (d Decorator) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	ctx, n, err := d.verify(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.GasPayment += int64(n) * signatureVerifyCost
	return res, nil
}

func (d Decorator) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	ctx, _, err := d.verify(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

func (d Decorator) verify(ctx custody.Context, db custody.KVStore, tx custody.Tx) (custody.Context, int, error) {
	signed, ok := tx.(SignedTx)
	switch {
	case !ok && d.optional:
		return ctx, 0, nil
	case !ok:
		return nil, 0, errors.Wrapf(errors.ErrUnauthorized, "%T carries no signatures", tx)
	}

	signers, err := VerifyTxSignatures(db, signed, custody.GetChainID(ctx))
	if err != nil {
		return nil, 0, errors.Wrap(err, "verify signatures")
	}
	if len(signers) == 0 && !d.optional {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), len(signers), nil
}
