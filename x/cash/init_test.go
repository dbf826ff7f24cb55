package cash

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitState(t *testing.T) {
	alice := custodytest.SequenceAddress(1)
	bob := custodytest.SequenceAddress(2)

	accts, err := json.Marshal([]GenesisAccount{
		{Address: alice, Balance: 100},
		{Address: bob, Balance: 7},
	})
	require.NoError(t, err)
	conf := json.RawMessage(`{"cash": {"reserve_base": 10, "reserve_per_byte": 2}}`)

	cases := map[string]struct {
		opts    custody.Options
		wantErr *errors.Error
		want    map[string]uint64
	}{
		"accounts and configuration": {
			opts: custody.Options{"cash": accts, "conf": conf},
			want: map[string]uint64{string(alice): 100, string(bob): 7},
		},
		"configuration only": {
			opts: custody.Options{"conf": conf},
			want: map[string]uint64{string(alice): 0},
		},
		"configuration is required": {
			opts:    custody.Options{"cash": accts},
			wantErr: errors.ErrNotFound,
		},
		"bad address": {
			opts:    custody.Options{"cash": []byte(`[{"address": "1234", "balance": 5}]`), "conf": conf},
			wantErr: errors.ErrInput,
		},
		"bad format": {
			opts:    custody.Options{"cash": []byte(`{"address": 12}`), "conf": conf},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			err := Initializer{}.FromGenesis(tc.opts, db)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
				return
			}
			require.NoError(t, err)

			c := NewController(NewBucket())
			for addr, want := range tc.want {
				assertBalance(t, c, db, custody.Address(addr), want)
			}
			reserve, err := c.MinimumBalance(db, 5)
			require.NoError(t, err)
			assert.Equal(t, uint64(20), reserve)
		})
	}
}
