package custody

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOptions(t *testing.T) {
	type account struct {
		Balance uint64 `json:"balance"`
	}

	cases := map[string]struct {
		json    string
		want    account
		wantErr *errors.Error
	}{
		"happy path": {
			json: `{"acct": {"balance": 12}}`,
			want: account{Balance: 12},
		},
		"missing key is a noop": {
			json: `{"other": {"balance": 12}}`,
		},
		"wrong value": {
			json:    `{"acct": {"balance": "twelve"}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var o Options
			require.NoError(t, json.Unmarshal([]byte(tc.json), &o))

			var got account
			err := o.ReadOptions("acct", &got)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "%+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

type recordingInit struct {
	name  string
	calls *[]string
	err   error
}

func (r recordingInit) FromGenesis(Options, KVStore) error {
	*r.calls = append(*r.calls, r.name)
	return r.err
}

func TestChainInitializers(t *testing.T) {
	var calls []string
	ini := ChainInitializers(
		recordingInit{name: "cash", calls: &calls},
		recordingInit{name: "escrow", calls: &calls, err: errors.ErrInput},
		recordingInit{name: "never", calls: &calls},
	)
	err := ini.FromGenesis(Options{}, nil)
	assert.True(t, errors.ErrInput.Is(err))
	assert.Equal(t, []string{"cash", "escrow"}, calls)
}
