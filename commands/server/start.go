package server

import (
	"github.com/iov-one/custody/errors"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultBind is the address tendermint expects the application on.
const DefaultBind = "tcp://localhost:26658"

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, debug bool) (abci.Application, error)

// StartCmd initializes the application and serves it on bind until the
// process is interrupted. It only returns if the server cannot start.
func StartCmd(gen AppGenerator, logger log.Logger, home, bind string, debug bool) error {
	svr, err := NewServer(gen, logger, home, bind, debug)
	if err != nil {
		return err
	}
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrNetwork, "start abci server: %s", err)
	}

	// TrapSignal exits the process once the server is stopped
	cmn.TrapSignal(logger, func() {
		if err := svr.Stop(); err != nil {
			logger.Error("Stopping abci server", "err", err)
		}
	})
	select {}
}

// NewServer builds the application in home and returns an ABCI socket
// server for it, not yet started.
func NewServer(gen AppGenerator, logger log.Logger, home, bind string, debug bool) (cmn.Service, error) {
	app, err := gen(home, logger, debug)
	if err != nil {
		return nil, errors.Wrap(err, "generate app")
	}

	logger.Info("Starting ABCI app", "bind", bind)
	svr, err := server.NewServer(bind, "socket", app)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "creating listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	return svr, nil
}
