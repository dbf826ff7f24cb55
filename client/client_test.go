package client

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	escrowd "github.com/iov-one/custody/cmd/escrowd/app"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/rpc/client/mock"
)

const chainID = "client-test-3"

func newNode(t *testing.T, rich custody.Address) abci.Application {
	t.Helper()
	node, err := escrowd.GenerateApp("", log.NewNopLogger(), false)
	require.NoError(t, err)
	genesis, err := escrowd.GenInitOptions([]string{rich.String()})
	require.NoError(t, err)
	node.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: genesis})
	node.Commit()
	return node
}

func signTx(t *testing.T, c *Client, key *crypto.PrivateKey, msg custody.Msg) *escrowd.Tx {
	t.Helper()
	var tx escrowd.Tx
	require.NoError(t, tx.SetMsg(msg))
	nonce, err := c.NextNonce(context.Background(), key.PublicKey().Address())
	require.NoError(t, err)
	sig, err := sigs.SignTx(key, &tx, chainID, nonce)
	require.NoError(t, err)
	tx.Signatures = append(tx.Signatures, sig)
	return &tx
}

func TestEscrowLifecycle(t *testing.T) {
	ctx := context.Background()
	payerKey := crypto.GenPrivKeyEd25519()
	receiverKey := crypto.GenPrivKeyEd25519()
	payer, receiver := payerKey.PublicKey().Address(), receiverKey.PublicKey().Address()

	node := newNode(t, payer)
	c := NewClient(mock.ABCIApp{App: node})

	height, err := c.Height(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), height)

	balance, err := c.Balance(ctx, payer)
	require.NoError(t, err)
	assert.Equal(t, escrowd.DefaultBalance, balance)

	holding, bump, err := escrow.DeriveAddress(receiver, payer, escrow.DefaultProgramID)
	require.NoError(t, err)

	res, err := c.CommitTx(ctx, signTx(t, c, payerKey, &escrow.InitializeMsg{
		Payer:          payer,
		Receiver:       receiver,
		HoldingAccount: holding,
		Amount:         5000,
	}))
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Equal(t, []byte(holding), res.Result.Data)
	node.Commit()

	e, err := c.Escrow(ctx, holding)
	require.NoError(t, err)
	assert.Equal(t, escrow.StateInitialized, e.State)
	assert.Equal(t, uint32(bump), e.Bump)

	byPayer, err := c.EscrowsByPayer(ctx, payer)
	require.NoError(t, err)
	require.Len(t, byPayer, 1)
	assert.Equal(t, holding, byPayer[0].Holding)

	byReceiver, err := c.EscrowsByReceiver(ctx, receiver)
	require.NoError(t, err)
	require.Len(t, byReceiver, 1)
	assert.Equal(t, payer, byReceiver[0].Payer)

	nonce, err := c.NextNonce(ctx, payer)
	require.NoError(t, err)
	assert.Equal(t, int64(1), nonce)

	// only the payer may cancel
	cancel := &escrow.PayerCancelMsg{
		Payer:          payer,
		Receiver:       receiver,
		HoldingAccount: holding,
		Bump:           uint32(bump),
	}
	_, err = c.CommitTx(ctx, signTx(t, c, receiverKey, cancel))
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)

	res, err = c.CommitTx(ctx, signTx(t, c, payerKey, cancel))
	require.NoError(t, err)
	require.NoError(t, res.Err)
	node.Commit()

	_, err = c.Escrow(ctx, holding)
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
	balance, err = c.Balance(ctx, payer)
	require.NoError(t, err)
	assert.Equal(t, escrowd.DefaultBalance, balance)
}

func TestSubmitRejectedTx(t *testing.T) {
	ctx := context.Background()
	key := crypto.GenPrivKeyEd25519()
	node := newNode(t, key.PublicKey().Address())
	c := NewClient(mock.ABCIApp{App: node})

	// the signer never got any funds
	poor := crypto.GenPrivKeyEd25519()
	tx := signTx(t, c, poor, &cash.SendMsg{
		Source:      poor.PublicKey().Address(),
		Destination: key.PublicKey().Address(),
		Amount:      10,
	})
	// CheckTx only validates, the transfer itself fails on deliver
	res, err := c.CommitTx(ctx, tx)
	require.NoError(t, err)
	assert.Error(t, res.Err)

	unsigned := &escrowd.Tx{SendMsg: &cash.SendMsg{
		Source:      key.PublicKey().Address(),
		Destination: poor.PublicKey().Address(),
		Amount:      10,
	}}
	_, err = c.SubmitTx(ctx, unsigned)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = c.SubmitTx(cancelled, unsigned)
	assert.True(t, errors.ErrTimeout.Is(err), "%+v", err)

	models, err := c.Query(ctx, "/wallets", poor.PublicKey().Address())
	require.NoError(t, err)
	assert.Empty(t, models)

	_, err = c.Query(ctx, "/unknown", nil)
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
}
