package app

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const chainID = "escrow-test-1"

type account struct {
	key *crypto.PrivateKey
	seq int64
}

func newAccount() *account {
	return &account{key: crypto.GenPrivKeyEd25519()}
}

func (a *account) address() custody.Address {
	return a.key.PublicKey().Address()
}

type testApp struct {
	t      *testing.T
	abci   abci.Application
	height int64
}

func newTestApp(t *testing.T, rich custody.Address) *testApp {
	t.Helper()
	application, err := GenerateApp("", log.NewNopLogger(), true)
	require.NoError(t, err)

	genesis, err := GenInitOptions([]string{rich.String()})
	require.NoError(t, err)
	application.InitChain(abci.RequestInitChain{
		ChainId:       chainID,
		AppStateBytes: genesis,
	})
	ta := &testApp{t: t, abci: application}
	// genesis state is only visible once committed
	ta.commitBlock()
	return ta
}

func (ta *testApp) commitBlock(txs ...[]byte) []abci.ResponseDeliverTx {
	ta.height++
	ta.abci.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: ta.height, ChainID: chainID}})
	res := make([]abci.ResponseDeliverTx, len(txs))
	for i, tx := range txs {
		res[i] = ta.abci.DeliverTx(tx)
	}
	ta.abci.EndBlock(abci.RequestEndBlock{Height: ta.height})
	ta.abci.Commit()
	return res
}

func (ta *testApp) deliver(msg custody.Msg, signers ...*account) abci.ResponseDeliverTx {
	ta.t.Helper()
	return ta.commitBlock(signedTx(ta.t, msg, signers...))[0]
}

func (ta *testApp) balance(addr custody.Address) uint64 {
	ta.t.Helper()
	res := ta.abci.Query(abci.RequestQuery{Path: "/wallets", Data: addr})
	require.Equal(ta.t, uint32(0), res.Code, res.Log)
	var wallet cash.Wallet
	require.NoError(ta.t, app.UnmarshalOneResult(res.Value, &wallet))
	return wallet.Balance
}

func (ta *testApp) escrow(holding custody.Address) *escrow.EscrowAccount {
	ta.t.Helper()
	res := ta.abci.Query(abci.RequestQuery{Path: "/escrows", Data: holding})
	require.Equal(ta.t, uint32(0), res.Code, res.Log)
	var set app.ResultSet
	require.NoError(ta.t, set.Unmarshal(res.Value))
	if len(set.Results) == 0 {
		return nil
	}
	var e escrow.EscrowAccount
	require.NoError(ta.t, app.UnmarshalOneResult(res.Value, &e))
	return &e
}

func signedTx(t *testing.T, msg custody.Msg, signers ...*account) []byte {
	t.Helper()
	var tx Tx
	require.NoError(t, tx.SetMsg(msg))
	for _, signer := range signers {
		sig, err := sigs.SignTx(signer.key, &tx, chainID, signer.seq)
		require.NoError(t, err)
		tx.Signatures = append(tx.Signatures, sig)
		signer.seq++
	}
	bz, err := tx.Marshal()
	require.NoError(t, err)
	return bz
}

func TestEscrowSettlement(t *testing.T) {
	payer, receiver := newAccount(), newAccount()
	ta := newTestApp(t, payer.address())
	require.Equal(t, DefaultBalance, ta.balance(payer.address()))

	holding, bump, err := escrow.DeriveAddress(receiver.address(), payer.address(), escrow.DefaultProgramID)
	require.NoError(t, err)

	const amount uint64 = 250000000
	res := ta.deliver(&escrow.InitializeMsg{
		Payer:          payer.address(),
		Receiver:       receiver.address(),
		HoldingAccount: holding,
		Amount:         amount,
	}, payer)
	require.Equal(t, uint32(0), res.Code, res.Log)
	assert.Equal(t, []byte(holding), res.Data)
	assert.NotEmpty(t, res.Tags)

	reserve := DefaultReserveBase + DefaultReservePerByte*escrow.AccountSize
	assert.Equal(t, amount+reserve, ta.balance(holding))
	assert.Equal(t, DefaultBalance-amount-reserve, ta.balance(payer.address()))

	e := ta.escrow(holding)
	require.NotNil(t, e)
	assert.Equal(t, escrow.StateInitialized, e.State)
	assert.Equal(t, uint32(bump), e.Bump)

	ref := escrow.ReceiverConfirmMsg{
		Payer:          payer.address(),
		Receiver:       receiver.address(),
		HoldingAccount: holding,
		Bump:           uint32(bump),
	}
	res = ta.deliver(&ref, receiver)
	require.Equal(t, uint32(0), res.Code, res.Log)
	assert.Equal(t, escrow.StateReceiverConfirmed, ta.escrow(holding).State)

	// a confirmed escrow can no longer be cancelled
	cancel := escrow.PayerCancelMsg(ref)
	res = ta.deliver(&cancel, payer)
	assert.Equal(t, errors.ErrState.ABCICode(), res.Code, res.Log)

	confirm := escrow.PayerConfirmMsg(ref)
	res = ta.deliver(&confirm, payer)
	require.Equal(t, uint32(0), res.Code, res.Log)

	assert.Equal(t, amount, ta.balance(receiver.address()))
	assert.Equal(t, DefaultBalance-amount, ta.balance(payer.address()))
	assert.Nil(t, ta.escrow(holding))
}

func TestEscrowCancellation(t *testing.T) {
	payer, receiver := newAccount(), newAccount()
	ta := newTestApp(t, payer.address())

	holding, bump, err := escrow.DeriveAddress(receiver.address(), payer.address(), escrow.DefaultProgramID)
	require.NoError(t, err)

	initialize := &escrow.InitializeMsg{
		Payer:          payer.address(),
		Receiver:       receiver.address(),
		HoldingAccount: holding,
		Amount:         1000,
	}
	// unsigned
	res := ta.deliver(initialize)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code, res.Log)

	// signed by the wrong party
	res = ta.deliver(initialize, receiver)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code, res.Log)

	res = ta.deliver(initialize, payer)
	require.Equal(t, uint32(0), res.Code, res.Log)

	cancel := &escrow.PayerCancelMsg{
		Payer:          payer.address(),
		Receiver:       receiver.address(),
		HoldingAccount: holding,
		Bump:           uint32(bump),
	}
	res = ta.deliver(cancel, receiver)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code, res.Log)

	res = ta.deliver(cancel, payer)
	require.Equal(t, uint32(0), res.Code, res.Log)
	assert.Equal(t, DefaultBalance, ta.balance(payer.address()))
	assert.Nil(t, ta.escrow(holding))

	// the escrow is gone
	res = ta.deliver(cancel, payer)
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code, res.Log)
}

func TestCheckTx(t *testing.T) {
	payer, receiver := newAccount(), newAccount()
	ta := newTestApp(t, payer.address())

	tx := signedTx(t, &cash.SendMsg{
		Source:      payer.address(),
		Destination: receiver.address(),
		Amount:      500,
	}, payer)
	res := ta.abci.CheckTx(tx)
	require.Equal(t, uint32(0), res.Code, res.Log)

	res = ta.abci.CheckTx([]byte("not a transaction"))
	assert.NotEqual(t, uint32(0), res.Code)
}

func TestCheckTxBeforeFirstBlock(t *testing.T) {
	payer, receiver := newAccount(), newAccount()
	application, err := GenerateApp("", log.NewNopLogger(), true)
	require.NoError(t, err)
	genesis, err := GenInitOptions([]string{payer.address().String()})
	require.NoError(t, err)
	application.InitChain(abci.RequestInitChain{
		ChainId:       chainID,
		AppStateBytes: genesis,
	})
	application.Commit()

	holding, _, err := escrow.DeriveAddress(receiver.address(), payer.address(), escrow.DefaultProgramID)
	require.NoError(t, err)
	tx := signedTx(t, &escrow.InitializeMsg{
		Payer:          payer.address(),
		Receiver:       receiver.address(),
		HoldingAccount: holding,
		Amount:         1000,
	}, payer)
	res := application.CheckTx(tx)
	require.Equal(t, uint32(0), res.Code, res.Log)
}

func TestTxGetMsg(t *testing.T) {
	a, b := newAccount().address(), newAccount().address()
	send := &cash.SendMsg{Source: a, Destination: b, Amount: 1}
	cancel := &escrow.PayerCancelMsg{Payer: a, Receiver: b}

	cases := map[string]struct {
		tx      Tx
		want    custody.Msg
		wantErr *errors.Error
	}{
		"empty": {
			wantErr: errors.ErrMsg,
		},
		"send": {
			tx:   Tx{SendMsg: send},
			want: send,
		},
		"cancel": {
			tx:   Tx{PayerCancelMsg: cancel},
			want: cancel,
		},
		"two messages": {
			tx:      Tx{SendMsg: send, PayerCancelMsg: cancel},
			wantErr: errors.ErrMsg,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			msg, err := tc.tx.GetMsg()
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "%+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, msg)
		})
	}
}

func TestTxSignBytes(t *testing.T) {
	payer, receiver := newAccount(), newAccount()
	var tx Tx
	require.NoError(t, tx.SetMsg(&cash.SendMsg{
		Source:      payer.address(),
		Destination: receiver.address(),
		Amount:      7,
		Memo:        "lunch",
	}))
	unsigned, err := tx.GetSignBytes()
	require.NoError(t, err)

	sig, err := sigs.SignTx(payer.key, &tx, chainID, 0)
	require.NoError(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}

	signed, err := tx.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, unsigned, signed)
	assert.Len(t, tx.Signatures, 1)

	bz, err := tx.Marshal()
	require.NoError(t, err)
	decoded, err := TxDecoder(bz)
	require.NoError(t, err)
	msg, err := decoded.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, "cash/send", msg.Path())

	assert.True(t, errors.ErrType.Is(tx.SetMsg(nil)))
}
