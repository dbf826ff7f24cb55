package app

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// stateLayers keeps the committed ledger together with the two working
// copies built on top of it. Transactions being delivered write into the
// deliver layer, the mempool validates against the check layer. Only the
// deliver layer survives a commit.
type stateLayers struct {
	committed custody.CommitKVStore
	deliver   custody.KVCacheWrap
	check     custody.KVCacheWrap
}

// openLayers loads the latest version of kv and panics if it cannot.
func openLayers(kv custody.CommitKVStore) *stateLayers {
	if err := kv.LoadLatestVersion(); err != nil {
		panic(err)
	}
	l := &stateLayers{committed: kv}
	l.reset()
	return l
}

func (l *stateLayers) reset() {
	l.deliver = l.committed.CacheWrap()
	l.check = l.committed.CacheWrap()
}

func (l *stateLayers) info() (custody.CommitID, error) {
	return l.committed.LatestVersion()
}

// commit flushes delivered changes, persists a new version and starts
// fresh working copies. Pending check state is dropped.
func (l *stateLayers) commit() (custody.CommitID, error) {
	if err := l.deliver.Write(); err != nil {
		return custody.CommitID{}, errors.Wrap(err, "flush deliver")
	}
	l.check.Discard()

	id, err := l.committed.Commit()
	if err != nil {
		return id, err
	}
	l.reset()
	return id, nil
}

// Internal keys share the "_c:" prefix with gconf.
const chainIDKey = "_c:chainID"

func loadChainID(kv custody.ReadOnlyKVStore) (string, error) {
	raw, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(raw), nil
}

// saveChainID writes the chain id once. A second call fails.
func saveChainID(kv custody.KVStore, chainID string) error {
	if !custody.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	switch prev, err := loadChainID(kv); {
	case err != nil:
		return err
	case prev != "":
		return errors.Wrapf(errors.ErrUnauthorized, "chain id already set to %q", prev)
	}
	if err := kv.Set([]byte(chainIDKey), []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
