package store

import "github.com/iov-one/custody"

// Storage types are declared in the root package, these aliases keep
// the names short inside store and its clients.

type ReadOnlyKVStore = custody.ReadOnlyKVStore
type SetDeleter = custody.SetDeleter
type KVStore = custody.KVStore
type Batch = custody.Batch
type Iterator = custody.Iterator
type CacheableKVStore = custody.CacheableKVStore
type KVCacheWrap = custody.KVCacheWrap
type CommitKVStore = custody.CommitKVStore
type CommitID = custody.CommitID
type Model = custody.Model

// Pair constructs a model from a key-value pair
var Pair = custody.Pair
