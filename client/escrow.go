package client

import (
	"bytes"
	"context"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
)

// Balance returns the balance of the account at addr. Accounts that were
// never funded hold nothing.
func (c *Client) Balance(ctx context.Context, addr custody.Address) (uint64, error) {
	models, err := c.Query(ctx, "/wallets", addr)
	if err != nil {
		return 0, err
	}
	if len(models) == 0 {
		return 0, nil
	}
	var w cash.Wallet
	if err := w.Unmarshal(models[0].Value); err != nil {
		return 0, errors.Wrap(err, "wallet")
	}
	return w.Balance, nil
}

// Escrow returns the escrow held at the custody address.
func (c *Client) Escrow(ctx context.Context, holding custody.Address) (*escrow.EscrowAccount, error) {
	models, err := c.Query(ctx, "/escrows", holding)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "escrow %s", holding)
	}
	found, err := parseEscrows(models)
	if err != nil {
		return nil, err
	}
	return found[0].EscrowAccount, nil
}

// EscrowsByPayer lists all open escrows funded by payer.
func (c *Client) EscrowsByPayer(ctx context.Context, payer custody.Address) ([]Escrow, error) {
	models, err := c.Query(ctx, "/escrows/payer", payer)
	if err != nil {
		return nil, err
	}
	return parseEscrows(models)
}

// EscrowsByReceiver lists all open escrows paying out to receiver.
func (c *Client) EscrowsByReceiver(ctx context.Context, receiver custody.Address) ([]Escrow, error) {
	models, err := c.Query(ctx, "/escrows/receiver", receiver)
	if err != nil {
		return nil, err
	}
	return parseEscrows(models)
}

// NextNonce returns the sequence the next signature of signer must use.
func (c *Client) NextNonce(ctx context.Context, signer custody.Address) (int64, error) {
	models, err := c.Query(ctx, "/auth", signer)
	if err != nil {
		return 0, err
	}
	// If not yet present, nonce counting starts with zero.
	if len(models) == 0 {
		return 0, nil
	}
	var user sigs.UserData
	if err := user.Unmarshal(models[0].Value); err != nil {
		return 0, errors.Wrap(err, "user")
	}
	return user.Sequence, nil
}

func parseEscrows(models []custody.Model) ([]Escrow, error) {
	prefix := escrow.NewBucket().DBKey(nil)
	res := make([]Escrow, 0, len(models))
	for _, m := range models {
		if !bytes.HasPrefix(m.Key, prefix) {
			return nil, errors.Wrapf(errors.ErrInput, "key %X outside of the escrow bucket", m.Key)
		}
		var e escrow.EscrowAccount
		if err := e.Unmarshal(m.Value); err != nil {
			return nil, errors.Wrap(err, "escrow")
		}
		res = append(res, Escrow{
			Holding:       custody.Address(m.Key[len(prefix):]),
			EscrowAccount: &e,
		})
	}
	return res, nil
}
