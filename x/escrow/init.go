package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis stores the program identity. Without an "escrow" entry in
// the "conf" section DefaultProgramID is used.
func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(db, opts, "escrow", &conf)
	switch {
	case err == nil:
		return nil
	case errors.ErrNotFound.Is(err):
		conf = Configuration{ProgramID: DefaultProgramID}
		return gconf.Save(db, "escrow", &conf)
	default:
		return errors.Wrap(err, "init config")
	}
}
