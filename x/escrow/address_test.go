package escrow

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveAddress(t *testing.T) {
	alice := custodytest.SequenceAddress(1)
	bob := custodytest.SequenceAddress(2)
	other := custodytest.SequenceAddress(3)

	addr, bump, err := DeriveAddress(bob, alice, DefaultProgramID)
	require.NoError(t, err)
	require.NoError(t, addr.Validate())

	again, againBump, err := DeriveAddress(bob, alice, DefaultProgramID)
	require.NoError(t, err)
	assert.Equal(t, addr, again)
	assert.Equal(t, bump, againBump)

	swapped, _, err := DeriveAddress(alice, bob, DefaultProgramID)
	require.NoError(t, err)
	assert.NotEqual(t, addr, swapped, "parties are not interchangeable")

	otherProgram, _, err := DeriveAddress(bob, alice, other)
	require.NoError(t, err)
	assert.NotEqual(t, addr, otherProgram)

	for _, party := range []custody.Address{alice, bob, DefaultProgramID} {
		assert.NotEqual(t, party, addr)
	}
}

func TestVerifyAddress(t *testing.T) {
	alice := custodytest.SequenceAddress(1)
	bob := custodytest.SequenceAddress(2)
	holding, bump, err := DeriveAddress(bob, alice, DefaultProgramID)
	require.NoError(t, err)

	cases := map[string]struct {
		receiver custody.Address
		payer    custody.Address
		bump     uint8
		holding  custody.Address
		wantErr  *errors.Error
	}{
		"canonical": {
			receiver: bob,
			payer:    alice,
			bump:     bump,
			holding:  holding,
		},
		"swapped parties": {
			receiver: alice,
			payer:    bob,
			bump:     bump,
			holding:  holding,
			wantErr:  ErrAddressMismatch,
		},
		"wrong bump": {
			receiver: bob,
			payer:    alice,
			bump:     bump - 1,
			holding:  holding,
			wantErr:  ErrAddressMismatch,
		},
		"unrelated account": {
			receiver: bob,
			payer:    alice,
			bump:     bump,
			holding:  custodytest.SequenceAddress(7),
			wantErr:  ErrAddressMismatch,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := VerifyAddress(tc.receiver, tc.payer, DefaultProgramID, tc.bump, tc.holding)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
		})
	}
}
