package custody

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	newLogger := log.NewTMLogger(os.Stdout)
	ctx := WithLogger(bg, newLogger)
	assert.Equal(t, DefaultLogger, GetLogger(bg))
	assert.Equal(t, newLogger, GetLogger(ctx))

	val, ok := GetHeight(ctx)
	assert.Equal(t, int64(0), val)
	assert.False(t, ok)

	ctx = WithHeight(ctx, 7)
	val, ok = GetHeight(ctx)
	assert.Equal(t, int64(7), val)
	assert.True(t, ok)
	assert.Panics(t, func() { WithHeight(ctx, 9) })

	// changing the info modifies the logger, but not the height
	ctx2 := WithLogInfo(ctx, "escrow", "ABCD")
	assert.NotEqual(t, GetLogger(ctx), GetLogger(ctx2))
	val, _ = GetHeight(ctx2)
	assert.Equal(t, int64(7), val)

	assert.Panics(t, func() { GetChainID(ctx) })
	ctx2 = WithChainID(ctx, "escrow-chain")
	assert.Equal(t, "escrow-chain", GetChainID(ctx2))
	assert.Panics(t, func() { WithChainID(ctx2, "escrow-chain") })
	assert.Panics(t, func() { WithChainID(ctx, "no") })
}

func TestChainID(t *testing.T) {
	cases := map[string]struct {
		chainID string
		valid   bool
	}{
		"empty":         {"", false},
		"too short":     {"foo", false},
		"plain":         {"special", true},
		"mixed":         {"wish-YOU-88", true},
		"invalid chars": {"invalid;;chars", false},
		"too long":      {"this-chain-id-is-way-too-long", false},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.valid, IsValidChainID(tc.chainID))
		})
	}
}
