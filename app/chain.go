package app

import (
	"reflect"

	"github.com/iov-one/custody"
)

// Decorators is a decorator stack waiting for its final Handler.
//
//   app.ChainDecorators(
//     utils.NewLogging(),
//     utils.NewRecovery(),
//     sigs.NewDecorator(),
//   ).WithHandler(router)
//
// The first decorator is the outermost one and runs first.
type Decorators []custody.Decorator

// ChainDecorators starts a stack. Nil decorators are skipped.
func ChainDecorators(ds ...custody.Decorator) Decorators {
	return Decorators(nil).Chain(ds...)
}

// Chain returns a new stack with ds appended below the current ones.
func (d Decorators) Chain(ds ...custody.Decorator) Decorators {
	out := make(Decorators, 0, len(d)+len(ds))
	out = append(out, d...)
	for _, dec := range ds {
		if !isNil(dec) {
			out = append(out, dec)
		}
	}
	return out
}

func isNil(d custody.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack with h.
func (d Decorators) WithHandler(h custody.Handler) custody.Handler {
	for i := len(d) - 1; i >= 0; i-- {
		h = layer{dec: d[i], next: h}
	}
	return h
}

// layer runs one decorator around the rest of the stack.
type layer struct {
	dec  custody.Decorator
	next custody.Handler
}

var _ custody.Handler = layer{}

func (l layer) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l layer) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
