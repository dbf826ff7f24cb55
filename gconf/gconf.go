package gconf

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// ReadStore is the part of custody.ReadOnlyKVStore needed by Load.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of custody.KVStore needed by Save.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler is a configuration that can be written.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

// Unmarshaler is a configuration that can be read.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration can be both written and read.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

// Key is where the configuration of pkg is stored.
func Key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save replaces the configuration of pkg. An invalid configuration is
// never written.
func Save(db Store, pkg string, src ValidMarshaler) error {
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "%s configuration", pkg)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %s configuration", pkg)
	}
	return db.Set(Key(pkg), raw)
}

// Load reads the configuration of pkg into dst. A configuration that was
// never saved is ErrNotFound.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	raw, err := db.Get(Key(pkg))
	switch {
	case err != nil:
		return err
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s configuration", pkg)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal %s configuration", pkg)
	}
	return nil
}

// InitConfig saves the genesis entry conf.<pkg> as the configuration of
// pkg. A missing entry is ErrNotFound so that callers can fall back to
// defaults.
func InitConfig(db Store, opts custody.Options, pkg string, conf Configuration) error {
	var section custody.Options
	if err := opts.ReadOptions("conf", &section); err != nil {
		return errors.Wrap(err, "conf section")
	}
	if _, ok := section[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "genesis conf.%s", pkg)
	}
	if err := section.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "genesis conf.%s", pkg)
	}
	return Save(db, pkg, conf)
}
