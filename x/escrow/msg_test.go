package escrow

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMsgValidate(t *testing.T) {
	alice := custodytest.SequenceAddress(1)
	bob := custodytest.SequenceAddress(2)
	holding := custodytest.SequenceAddress(3)

	cases := map[string]struct {
		msg     custody.Msg
		wantErr *errors.Error
	}{
		"valid initialize": {
			msg: &InitializeMsg{Payer: alice, Receiver: bob, HoldingAccount: holding, Amount: 5},
		},
		"initialize without amount": {
			msg:     &InitializeMsg{Payer: alice, Receiver: bob, HoldingAccount: holding},
			wantErr: errors.ErrAmount,
		},
		"initialize with self": {
			msg:     &InitializeMsg{Payer: alice, Receiver: alice, HoldingAccount: holding, Amount: 5},
			wantErr: errors.ErrInput,
		},
		"initialize without receiver": {
			msg:     &InitializeMsg{Payer: alice, HoldingAccount: holding, Amount: 5},
			wantErr: errors.ErrEmpty,
		},
		"initialize with short holding account": {
			msg:     &InitializeMsg{Payer: alice, Receiver: bob, HoldingAccount: holding[:20], Amount: 5},
			wantErr: errors.ErrInput,
		},
		"valid cancel": {
			msg: &PayerCancelMsg{Payer: alice, Receiver: bob, HoldingAccount: holding, Bump: 255},
		},
		"cancel with bump out of range": {
			msg:     &PayerCancelMsg{Payer: alice, Receiver: bob, HoldingAccount: holding, Bump: 256},
			wantErr: errors.ErrInput,
		},
		"receiver confirm without holding account": {
			msg:     &ReceiverConfirmMsg{Payer: alice, Receiver: bob},
			wantErr: errors.ErrEmpty,
		},
		"valid payer confirm": {
			msg: &PayerConfirmMsg{Payer: alice, Receiver: bob, HoldingAccount: holding},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
		})
	}
}

func TestMsgSerialization(t *testing.T) {
	alice := custodytest.SequenceAddress(1)
	bob := custodytest.SequenceAddress(2)
	holding := custodytest.SequenceAddress(3)

	msg := &ReceiverConfirmMsg{Payer: alice, Receiver: bob, HoldingAccount: holding, Bump: 254}
	raw, err := msg.Marshal()
	require.NoError(t, err)

	// all reference messages share one layout
	var cancel PayerCancelMsg
	require.NoError(t, cancel.Unmarshal(raw))
	assert.Equal(t, alice, cancel.Payer)
	assert.Equal(t, bob, cancel.Receiver)
	assert.Equal(t, holding, cancel.HoldingAccount)
	assert.Equal(t, uint32(254), cancel.Bump)

	paths := map[string]custody.Msg{
		"escrow/initialize":       &InitializeMsg{},
		"escrow/payer_cancel":     &PayerCancelMsg{},
		"escrow/receiver_confirm": &ReceiverConfirmMsg{},
		"escrow/payer_confirm":    &PayerConfirmMsg{},
	}
	for path, m := range paths {
		assert.Equal(t, path, m.Path())
	}
}
