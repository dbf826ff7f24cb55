package custody

import (
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoQuery struct{}

func (echoQuery) Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error) {
	return []Model{Pair([]byte(mod), data)}, nil
}

func TestQueryRouter(t *testing.T) {
	qr := NewQueryRouter()
	qr.RegisterAll(func(r QueryRouter) {
		r.Register("escrows", echoQuery{})
	})
	assert.Panics(t, func() { qr.Register("/escrows", echoQuery{}) })

	res, err := qr.Query(nil, "/escrows", []byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []Model{Pair([]byte(KeyQueryMod), []byte("key"))}, res)

	res, err = qr.Query(nil, "/escrows?prefix", []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []Model{Pair([]byte(PrefixQueryMod), []byte("k"))}, res)

	_, err = qr.Query(nil, "/wallets", nil)
	assert.True(t, errors.ErrNotFound.Is(err))
}
