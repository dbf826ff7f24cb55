package x

import (
	"github.com/iov-one/custody"
)

// Authenticator tells a handler who authorized the transaction in
// flight. Handlers receive one in their constructor and never look at
// signatures themselves.
type Authenticator interface {
	// GetSigners lists the authorizing addresses, in order.
	GetSigners(custody.Context) []custody.Address
	// HasAddress reports whether addr authorized the transaction.
	HasAddress(custody.Context, custody.Address) bool
}

// MultiAuth merges several Authenticators. An address is authorized if
// any of them accepts it.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth{}

// ChainAuth builds a MultiAuth out of impls.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

func (m MultiAuth) GetSigners(ctx custody.Context) []custody.Address {
	var all []custody.Address
	for _, a := range m {
		all = append(all, a.GetSigners(ctx)...)
	}
	return all
}

func (m MultiAuth) HasAddress(ctx custody.Context, addr custody.Address) bool {
	for _, a := range m {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner is the first signer, or nil for an unsigned transaction.
func MainSigner(ctx custody.Context, auth Authenticator) custody.Address {
	if signers := auth.GetSigners(ctx); len(signers) > 0 {
		return signers[0]
	}
	return nil
}

// HasAllAddresses reports whether every address in required signed.
func HasAllAddresses(ctx custody.Context, auth Authenticator, required []custody.Address) bool {
	for _, addr := range required {
		if !auth.HasAddress(ctx, addr) {
			return false
		}
	}
	return true
}
