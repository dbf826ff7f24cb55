package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the parts of abci.Application that do not execute
// transactions: Info, Query, InitChain, block boundaries and Commit.
// BaseApp embeds it and adds CheckTx and DeliverTx.
//
// Failures on steps that take no user input are fatal for the node and
// are raised as panics.
type StoreApp struct {
	name   string
	logger log.Logger
	state  *stateLayers

	initializer custody.Initializer
	queryRouter custody.QueryRouter

	// chainID is empty until genesis was loaded
	chainID string

	// baseContext lives as long as the app, blockContext is baseContext
	// plus the current height and is rebuilt whenever either changes
	baseContext  custody.Context
	blockContext custody.Context
	height       int64
}

// NewStoreApp opens kv at its latest version and restores the chain id
// and height from it. It panics if the store cannot be read.
func NewStoreApp(name string, kv custody.CommitKVStore,
	queryRouter custody.QueryRouter, baseContext custody.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		state:       openLayers(kv),
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(s.DeliverStore())
	if err != nil {
		panic(err)
	}
	if chainID != "" {
		s.setChainID(chainID)
	}

	last, err := s.state.info()
	if err != nil {
		panic(err)
	}
	s.setHeight(last.Version)
	return s
}

// WithInit sets the initializer run on genesis.
func (s *StoreApp) WithInit(init custody.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger replaces the logger of the app and of every context it
// hands out.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.baseContext = custody.WithLogger(s.baseContext, logger)
	s.setHeight(s.height)
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// GetChainID returns the chain id, or an empty string before genesis.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// BlockContext carries the chain id and the height of the current block.
func (s *StoreApp) BlockContext() custody.Context {
	return s.blockContext
}

// DeliverStore is the working copy that will be committed.
func (s *StoreApp) DeliverStore() custody.CacheableKVStore {
	return s.state.deliver
}

// CheckStore is the working copy used to validate mempool transactions.
func (s *StoreApp) CheckStore() custody.CacheableKVStore {
	return s.state.check
}

func (s *StoreApp) setChainID(chainID string) {
	s.chainID = chainID
	s.baseContext = custody.WithChainID(s.baseContext, chainID)
	s.setHeight(s.height)
}

func (s *StoreApp) setHeight(height int64) {
	s.height = height
	s.blockContext = custody.WithHeight(s.baseContext, height)
}

// parseAppState stores the chain id and hands the decoded app_state to
// the initializer. It only succeeds on a store that has never been
// initialized.
func (s *StoreApp) parseAppState(data []byte, chainID string, init custody.Initializer) error {
	switch {
	case s.chainID != "":
		return errors.Wrapf(errors.ErrState, "genesis already loaded for chain %s", s.chainID)
	case len(data) == 0:
		return errors.Wrap(errors.ErrState, "app_state missing in genesis, run init first")
	case init == nil:
		return errors.Wrap(errors.ErrState, "no initializer")
	}

	var opts custody.Options
	if err := json.Unmarshal(data, &opts); err != nil {
		return errors.Wrapf(errors.ErrInput, "app state: %s", err)
	}
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.setChainID(chainID)
	return init.FromGenesis(opts, s.DeliverStore())
}

// Info reports the last committed height and app hash.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	last, err := s.state.info()
	if err != nil {
		panic(err)
	}
	s.logger.Info("info", "height", last.Version, "hash", fmt.Sprintf("%X", last.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  last.Version,
		LastBlockAppHash: last.Hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not supported"}
}

// Query serves read requests against the last committed state.
//
// The path selects a registered query handler ("/", "/wallets",
// "/escrows/payer", ...) and may carry a "?prefix" modifier. Data is the
// key or index value to look up. Key and Value of the response are
// ResultSets of equal length.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := req.Path, ""
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path, mod = path[:i], path[i+1:]
	}

	h := s.queryRouter.Handler(path)
	if h == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}

	last, err := s.state.info()
	if err != nil {
		return queryError(err)
	}
	view := s.state.committed.CacheWrap()
	defer view.Discard()

	models, err := h.Query(view, mod, req.Data)
	if err != nil {
		return queryError(err)
	}
	res := abci.ResponseQuery{Height: last.Version}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return queryError(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return queryError(err)
	}
	return res
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}

// Commit persists everything delivered in the current block.
func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.state.commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("commit", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// InitChain loads the genesis app_state.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.parseAppState(req.AppStateBytes, req.ChainId, s.initializer); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	s.setHeight(req.Header.GetHeight())
	return abci.ResponseBeginBlock{}
}

// EndBlock never changes the validator set.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
