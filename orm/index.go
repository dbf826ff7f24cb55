package orm

import (
	"bytes"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const indexPrefix = "_i."

// Indexer calculates the secondary index key for a given object.
// A nil key leaves the object out of the index.
type Indexer func(Object) ([]byte, error)

// Index represents a secondary index on some data.
// It is indexed by an arbitrary key returned by Indexer.
// The value is one primary key (unique),
// Or a MultiRef of primary keys (!unique).
type Index struct {
	name   string
	id     []byte
	unique bool
	index  Indexer
	refKey func([]byte) []byte
}

var _ custody.QueryHandler = Index{}

// NewIndex constructs an index
// Indexer calculates the index for an object
// unique enforces a unique constraint on the index
// refKey calculates the absolute dbkey for a ref
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	return Index{
		name:   name,
		id:     []byte(indexPrefix + name + ":"),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

// IndexKey is the full key we store in the db, including prefix
func (i Index) IndexKey(key []byte) []byte {
	out := make([]byte, len(i.id)+len(key))
	copy(out, i.id)
	copy(out[len(i.id):], key)
	return out
}

// Update handles updating the reference to the object in
// the secondary index.
//
// prev == nil means insert
// save == nil means delete
// both == nil is error
// if both != nil and prev.Key() != save.Key() this is an error
func (i Index) Update(db custody.KVStore, prev Object, save Object) error {
	switch {
	case prev == nil && save == nil:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case prev == nil:
		key, err := i.index(save)
		if err != nil {
			return err
		}
		return i.insert(db, key, save.Key())
	case save == nil:
		key, err := i.index(prev)
		if err != nil {
			return err
		}
		return i.remove(db, key, prev.Key())
	}

	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrHuman, "cannot change primary key in an index update")
	}
	prevKey, err := i.index(prev)
	if err != nil {
		return err
	}
	saveKey, err := i.index(save)
	if err != nil {
		return err
	}
	if bytes.Equal(prevKey, saveKey) {
		return nil
	}
	if err := i.remove(db, prevKey, prev.Key()); err != nil {
		return err
	}
	return i.insert(db, saveKey, save.Key())
}

// GetAt returns a list of all pk at that index (may be empty), or an error
func (i Index) GetAt(db custody.ReadOnlyKVStore, index []byte) ([][]byte, error) {
	val, err := db.Get(i.IndexKey(index))
	if err != nil || val == nil {
		return nil, err
	}
	return i.refs(val)
}

// GetPrefix returns all references that have an index that
// begins with a given prefix
func (i Index) GetPrefix(db custody.ReadOnlyKVStore, prefix []byte) ([][]byte, error) {
	models, err := queryPrefix(db, i.IndexKey(prefix))
	if err != nil {
		return nil, err
	}
	var res [][]byte
	for _, m := range models {
		refs, err := i.refs(m.Value)
		if err != nil {
			return nil, err
		}
		res = append(res, refs...)
	}
	return res, nil
}

// Query handles queries from the QueryRouter, returning the
// referenced objects.
func (i Index) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	var (
		refs [][]byte
		err  error
	)
	switch mod {
	case custody.KeyQueryMod:
		refs, err = i.GetAt(db, data)
	case custody.PrefixQueryMod:
		refs, err = i.GetPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
	if err != nil {
		return nil, err
	}
	return i.loadRefs(db, refs)
}

func (i Index) loadRefs(db custody.ReadOnlyKVStore, refs [][]byte) ([]custody.Model, error) {
	res := make([]custody.Model, 0, len(refs))
	for _, ref := range refs {
		key := i.refKey(ref)
		val, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if val != nil {
			res = append(res, custody.Pair(key, val))
		}
	}
	return res, nil
}

func (i Index) refs(val []byte) ([][]byte, error) {
	if i.unique {
		return [][]byte{val}, nil
	}
	var multi MultiRef
	if err := multi.Unmarshal(val); err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return multi.Refs, nil
}

func (i Index) insert(db custody.KVStore, key []byte, pk []byte) error {
	if key == nil {
		return nil
	}
	dbKey := i.IndexKey(key)
	cur, err := db.Get(dbKey)
	if err != nil {
		return err
	}

	if i.unique {
		if cur != nil && !bytes.Equal(cur, pk) {
			return errors.Wrapf(ErrUniqueConstraint, "index %s", i.name)
		}
		return db.Set(dbKey, pk)
	}

	var multi MultiRef
	if cur != nil {
		if err := multi.Unmarshal(cur); err != nil {
			return errors.Wrap(errors.ErrModel, err.Error())
		}
	}
	if err := multi.Add(pk); err != nil {
		return err
	}
	bz, err := multi.Marshal()
	if err != nil {
		return err
	}
	return db.Set(dbKey, bz)
}

func (i Index) remove(db custody.KVStore, key []byte, pk []byte) error {
	if key == nil {
		return nil
	}
	dbKey := i.IndexKey(key)
	cur, err := db.Get(dbKey)
	if err != nil {
		return err
	}
	if cur == nil {
		return errors.Wrapf(errors.ErrNotFound, "index %s", i.name)
	}

	if i.unique {
		if !bytes.Equal(cur, pk) {
			return errors.Wrapf(errors.ErrHuman, "index %s points to another object", i.name)
		}
		return db.Delete(dbKey)
	}

	var multi MultiRef
	if err := multi.Unmarshal(cur); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	if err := multi.Remove(pk); err != nil {
		return err
	}
	if len(multi.Refs) == 0 {
		return db.Delete(dbKey)
	}
	bz, err := multi.Marshal()
	if err != nil {
		return err
	}
	return db.Set(dbKey, bz)
}
