package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const appStateKey = "app_state"

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenerateCoinKey returns the address of a fresh key together with its
// private key, so a genesis can fund it.
func GenerateCoinKey() (custody.Address, *crypto.PrivateKey) {
	privKey := crypto.GenPrivKeyEd25519()
	return privKey.PublicKey().Address(), privKey
}

// GenesisFile is where tendermint keeps the genesis of a node home
// directory.
func GenesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd will add the app_state to the genesis file tendermint created
// under home. An existing app_state is only replaced if force is set.
func InitCmd(gen GenOptions, logger log.Logger, home string, force bool, args []string) error {
	genFile := GenesisFile(home)
	if _, err := os.Stat(genFile); err != nil {
		return errors.Wrapf(errors.ErrNotFound, "genesis %s, run tendermint init first: %s", genFile, err)
	}

	var doc genesisDoc
	if err := readJSON(genFile, &doc); err != nil {
		return err
	}
	if len(doc[appStateKey]) > 0 && string(doc[appStateKey]) != "null" && !force {
		return errors.Wrapf(errors.ErrState, "genesis %s already has an app_state", genFile)
	}

	options, err := gen(args)
	if err != nil {
		return errors.Wrap(err, "generate app_state")
	}
	doc[appStateKey] = options

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis: %s", err)
	}
	if err := ioutil.WriteFile(genFile, out, 0600); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "write %s: %s", genFile, err)
	}
	logger.Info("App state set in genesis", "path", genFile)
	return nil
}

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

func readJSON(filename string, dst interface{}) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(errors.ErrNotFound, "read %s: %s", filename, err)
	}
	if err := json.Unmarshal(bz, dst); err != nil {
		return errors.Wrapf(errors.ErrInput, "parse %s: %s", filename, err)
	}
	return nil
}
