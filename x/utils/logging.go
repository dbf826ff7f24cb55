package utils

import (
	"time"

	"github.com/iov-one/custody"
	"github.com/tendermint/tendermint/libs/log"
)

// Logging reports every transaction with its path, outcome and how long
// the rest of the chain took.
type Logging struct{}

var _ custody.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

// Check logs failures at error and successes at debug level.
func (Logging) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	logger := txLogger(ctx, tx, start, err)
	switch {
	case err != nil:
		logger.Error("check failed")
	default:
		logger.Debug(res.Log, "gas", res.GasAllocated)
	}
	return res, err
}

// Deliver logs failures at error and successes at info level.
func (Logging) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	logger := txLogger(ctx, tx, start, err)
	switch {
	case err != nil:
		logger.Error("deliver failed")
	default:
		// an empty log is still worth an entry for the duration
		logger.Info(res.Log)
	}
	return res, err
}

func txLogger(ctx custody.Context, tx custody.Tx, start time.Time, err error) log.Logger {
	logger := custody.GetLogger(ctx).With("duration", time.Since(start)/time.Microsecond)
	if tx != nil {
		logger = logger.With("path", custody.GetPath(tx))
	}
	if err != nil {
		logger = logger.With("err", err)
	}
	return logger
}
