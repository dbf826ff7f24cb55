package cash

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendHandler(t *testing.T) {
	alice := custodytest.SequenceAddress(1)
	bob := custodytest.SequenceAddress(2)

	cases := map[string]struct {
		signer         custody.Address
		initBalance    uint64
		msg            custody.Msg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantAlice      uint64
		wantBob        uint64
	}{
		"success": {
			signer:      alice,
			initBalance: 100,
			msg:         &SendMsg{Source: alice, Destination: bob, Amount: 60},
			wantAlice:   40,
			wantBob:     60,
		},
		"missing signature": {
			signer:         bob,
			initBalance:    100,
			msg:            &SendMsg{Source: alice, Destination: bob, Amount: 60},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
			wantAlice:      100,
		},
		"funds are not checked before delivery": {
			signer:         alice,
			initBalance:    10,
			msg:            &SendMsg{Source: alice, Destination: bob, Amount: 60},
			wantDeliverErr: errors.ErrInsufficientAmount,
			wantAlice:      10,
		},
		"invalid message": {
			signer:         alice,
			initBalance:    10,
			msg:            &SendMsg{Source: alice, Destination: bob},
			wantCheckErr:   errors.ErrAmount,
			wantDeliverErr: errors.ErrAmount,
			wantAlice:      10,
		},
		"unknown message": {
			signer:         alice,
			msg:            &custodytest.Msg{RoutePath: "cash/other"},
			wantCheckErr:   errors.ErrType,
			wantDeliverErr: errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			control := NewController(NewBucket())
			if tc.initBalance > 0 {
				require.NoError(t, control.CoinMint(db, alice, tc.initBalance))
			}
			h := NewSendHandler(&custodytest.Auth{Signer: tc.signer}, control)
			tx := &custodytest.Tx{Msg: tc.msg}
			ctx := context.Background()

			cache := db.CacheWrap()
			_, err := h.Check(ctx, cache, tx)
			cache.Discard()
			if tc.wantCheckErr != nil {
				assert.True(t, tc.wantCheckErr.Is(err), "unexpected check error: %+v", err)
			} else {
				assert.NoError(t, err)
			}

			cache = db.CacheWrap()
			_, err = h.Deliver(ctx, cache, tx)
			if tc.wantDeliverErr != nil {
				assert.True(t, tc.wantDeliverErr.Is(err), "unexpected deliver error: %+v", err)
				cache.Discard()
			} else {
				require.NoError(t, err)
				require.NoError(t, cache.Write())
			}

			assertBalance(t, control, db, alice, tc.wantAlice)
			assertBalance(t, control, db, bob, tc.wantBob)
		})
	}
}

func TestSendMsgValidate(t *testing.T) {
	alice := custodytest.SequenceAddress(1)
	bob := custodytest.SequenceAddress(2)

	cases := map[string]struct {
		msg     *SendMsg
		wantErr *errors.Error
	}{
		"valid": {
			msg: &SendMsg{Source: alice, Destination: bob, Amount: 1, Memo: "rent"},
		},
		"zero amount": {
			msg:     &SendMsg{Source: alice, Destination: bob},
			wantErr: errors.ErrAmount,
		},
		"missing source": {
			msg:     &SendMsg{Destination: bob, Amount: 1},
			wantErr: errors.ErrEmpty,
		},
		"short destination": {
			msg:     &SendMsg{Source: alice, Destination: bob[:10], Amount: 1},
			wantErr: errors.ErrInput,
		},
		"to self": {
			msg:     &SendMsg{Source: alice, Destination: alice, Amount: 1},
			wantErr: errors.ErrInput,
		},
		"memo too long": {
			msg:     &SendMsg{Source: alice, Destination: bob, Amount: 1, Memo: string(make([]byte, maxMemoSize+1))},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
		})
	}
}

func TestSendMsgEncoding(t *testing.T) {
	msg := &SendMsg{
		Source:      custodytest.SequenceAddress(1),
		Destination: custodytest.SequenceAddress(2),
		Amount:      500000000,
		Memo:        "escrow refund",
	}
	bz, err := msg.Marshal()
	require.NoError(t, err)
	var got SendMsg
	require.NoError(t, got.Unmarshal(bz))
	assert.Equal(t, *msg, got)
}
