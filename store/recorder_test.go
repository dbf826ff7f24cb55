package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingStore(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("gone"), []byte("x")))

	db := NewRecordingStore(base)
	require.NoError(t, db.Set([]byte("payer"), []byte("alice")))
	require.NoError(t, db.Delete([]byte("gone")))

	// writes through a cache are recorded once written
	cached, ok := db.(CacheableKVStore)
	require.True(t, ok)
	cache := cached.CacheWrap()
	require.NoError(t, cache.Set([]byte("receiver"), []byte("bob")))
	discarded := cached.CacheWrap()
	require.NoError(t, discarded.Set([]byte("never"), []byte("1")))
	discarded.Discard()
	require.NoError(t, cache.Write())

	want := map[string][]byte{
		"payer":    []byte("alice"),
		"gone":     nil,
		"receiver": []byte("bob"),
	}
	assert.Equal(t, want, db.(Recorder).KVPairs())

	got, err := base.Get([]byte("receiver"))
	require.NoError(t, err)
	assert.Equal(t, []byte("bob"), got)
}

func TestRecordingPlainStore(t *testing.T) {
	db := NewRecordingStore(EmptyKVStore{})
	_, cacheable := db.(CacheableKVStore)
	assert.False(t, cacheable)

	b := db.NewBatch()
	require.NoError(t, b.Set([]byte("a"), []byte("1")))
	assert.Empty(t, db.(Recorder).KVPairs())
	require.NoError(t, b.Write())
	assert.Equal(t, map[string][]byte{"a": []byte("1")}, db.(Recorder).KVPairs())
}
