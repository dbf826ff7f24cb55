package store

// Recorder lists every key written through a store created by
// NewRecordingStore. The value is nil for deleted keys.
type Recorder interface {
	KVPairs() map[string][]byte
}

// NewRecordingStore tracks all writes done to db, directly, through a
// batch or through a cache wrap once it is written. The returned store is
// cacheable exactly when db is.
func NewRecordingStore(db KVStore) KVStore {
	rec := &recordingStore{KVStore: db, changes: make(changeSet)}
	if _, ok := db.(CacheableKVStore); ok {
		return cacheableRecordingStore{rec}
	}
	return rec
}

type changeSet map[string][]byte

func (c changeSet) set(key, value []byte) { c[string(key)] = value }
func (c changeSet) del(key []byte)        { c[string(key)] = nil }

type recordingStore struct {
	KVStore
	changes changeSet
}

var _ Recorder = (*recordingStore)(nil)

func (r *recordingStore) KVPairs() map[string][]byte {
	return r.changes
}

func (r *recordingStore) Set(key, value []byte) error {
	r.changes.set(key, value)
	return r.KVStore.Set(key, value)
}

func (r *recordingStore) Delete(key []byte) error {
	r.changes.del(key)
	return r.KVStore.Delete(key)
}

func (r *recordingStore) NewBatch() Batch {
	return &recordingBatch{
		Batch:   r.KVStore.NewBatch(),
		changes: r.changes,
		pending: make(changeSet),
	}
}

// cacheableRecordingStore layers its own btree cache, so that writes of
// the cache are flushed through the recording batch.
type cacheableRecordingStore struct {
	*recordingStore
}

var _ CacheableKVStore = cacheableRecordingStore{}

func (r cacheableRecordingStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(r, r.NewBatch(), nil)
}

// recordingBatch keeps its changes pending until the batch is written,
// so a discarded cache leaves no trace.
type recordingBatch struct {
	Batch
	changes changeSet
	pending changeSet
}

func (b *recordingBatch) Set(key, value []byte) error {
	b.pending.set(key, value)
	return b.Batch.Set(key, value)
}

func (b *recordingBatch) Delete(key []byte) error {
	b.pending.del(key)
	return b.Batch.Delete(key)
}

func (b *recordingBatch) Write() error {
	if err := b.Batch.Write(); err != nil {
		return err
	}
	for k, v := range b.pending {
		b.changes[k] = v
	}
	b.pending = make(changeSet)
	return nil
}
