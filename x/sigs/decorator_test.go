package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	kv := store.MemStore()
	checkKv := kv.CacheWrap()
	signers := new(SigCheckHandler)
	d := NewDecorator()
	chainID := "deco-rate"
	ctx := custody.WithChainID(context.Background(), chainID)

	priv := crypto.GenPrivKeyEd25519()
	want := []custody.Address{priv.PublicKey().Address()}

	tx := NewStdTx([]byte("art"))
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)

	deliver := func(dec custody.Decorator, my custody.Tx) error {
		_, err := dec.Deliver(ctx, kv, my, signers)
		return err
	}
	check := func(dec custody.Decorator, my custody.Tx) error {
		_, err := dec.Check(ctx, checkKv, my, signers)
		return err
	}

	for i, fn := range []func(custody.Decorator, custody.Tx) error{check, deliver} {
		tx.Signatures = nil
		err := fn(d, tx)
		assert.True(t, errors.ErrUnauthorized.Is(err), "%d", i)

		tx.Signatures = []*StdSignature{sig}
		err = fn(d, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, want, signers.Signers)

		// replay
		err = fn(d, tx)
		assert.Error(t, err, "%d", i)

		ad := d.AllowMissingSigs()
		tx.Signatures = nil
		err = fn(ad, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, []custody.Address{}, signers.Signers)

		tx.Signatures = []*StdSignature{sig1}
		err = fn(ad, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, want, signers.Signers)
	}
}

func TestDecoratorChargesGasPerSignature(t *testing.T) {
	chainID := "gas-chain"
	ctx := custody.WithChainID(context.Background(), chainID)
	priv := crypto.GenPrivKeyEd25519()
	tx := NewStdTx([]byte("pay"))
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{sig}

	res, err := NewDecorator().Check(ctx, store.MemStore(), tx, &custodytest.Handler{})
	require.NoError(t, err)
	assert.Equal(t, int64(signatureVerifyCost), res.GasPayment)
}

func TestDecoratorRejectsUnsignedTxType(t *testing.T) {
	ctx := custody.WithChainID(context.Background(), "plain-chain")
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "test/plain"}}
	h := &custodytest.Handler{}

	_, err := NewDecorator().Deliver(ctx, store.MemStore(), tx, h)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 0, h.CallCount())

	_, err = NewDecorator().AllowMissingSigs().Deliver(ctx, store.MemStore(), tx, h)
	assert.NoError(t, err)
	assert.Equal(t, 1, h.CallCount())
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []custody.Address
}

var _ custody.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	s.Signers = Authenticate{}.GetSigners(ctx)
	return &custody.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	s.Signers = Authenticate{}.GetSigners(ctx)
	return &custody.DeliverResult{}, nil
}
