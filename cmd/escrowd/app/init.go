package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/commands/server"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
)

const (
	// DefaultBalance funds the genesis account.
	DefaultBalance uint64 = 1000000000000

	// DefaultReserveBase and DefaultReservePerByte make a custody account
	// cost DefaultReserveBase + DefaultReservePerByte * escrow.AccountSize.
	DefaultReserveBase    uint64 = 890880
	DefaultReservePerByte uint64 = 6960
)

type genesisOptions struct {
	Cash []cash.GenesisAccount `json:"cash"`
	Conf struct {
		Cash   cash.Configuration   `json:"cash"`
		Escrow escrow.Configuration `json:"escrow"`
	} `json:"conf"`
}

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode
//
// The account address may be passed as the first argument. Without it a
// new key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr custody.Address
	if len(args) > 0 {
		var err error
		if addr, err = custody.ParseAddress(args[0]); err != nil {
			return nil, errors.Wrap(err, "genesis account")
		}
	} else {
		var key *crypto.PrivateKey
		addr, key = server.GenerateCoinKey()
		raw, err := key.Marshal()
		if err != nil {
			return nil, errors.Wrap(err, "marshal key")
		}
		fmt.Fprintf(os.Stderr, "Genesis key %X for address %s\n", raw, addr)
	}

	var opts genesisOptions
	opts.Cash = []cash.GenesisAccount{{Address: addr, Balance: DefaultBalance}}
	opts.Conf.Cash = cash.Configuration{
		ReserveBase:    DefaultReserveBase,
		ReservePerByte: DefaultReservePerByte,
	}
	opts.Conf.Escrow = escrow.Configuration{ProgramID: escrow.DefaultProgramID}
	return json.MarshalIndent(opts, "", "  ")
}
