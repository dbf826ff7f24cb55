package escrow

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/gconf"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x/cash"
	"github.com/stretchr/testify/require"
)

// testReserve is the minimum balance of a custody account under
// testCashConf.
const testReserve = 10 + AccountSize

var testCashConf = cash.Configuration{ReserveBase: 10, ReservePerByte: 1}

// setupLedger prepares a store with both configurations and funds the
// given accounts.
func setupLedger(t testing.TB, funds map[string]uint64) (custody.CacheableKVStore, cash.BaseController, CashLedger) {
	t.Helper()
	db := store.MemStore()
	require.NoError(t, gconf.Save(db, "cash", &testCashConf))
	require.NoError(t, gconf.Save(db, "escrow", &Configuration{ProgramID: DefaultProgramID}))

	bank := cash.NewController(cash.NewBucket())
	for addr, amount := range funds {
		require.NoError(t, bank.CoinMint(db, custody.Address(addr), amount))
	}
	return db, bank, NewCashLedger(bank)
}

func mustDerive(t testing.TB, receiver, payer custody.Address) (custody.Address, uint32) {
	t.Helper()
	addr, bump, err := DeriveAddress(receiver, payer, DefaultProgramID)
	require.NoError(t, err)
	return addr, uint32(bump)
}

func balanceOf(t testing.TB, bank cash.Controller, db custody.ReadOnlyKVStore, addr custody.Address) uint64 {
	t.Helper()
	b, err := bank.Balance(db, addr)
	require.NoError(t, err)
	return b
}

// routes is a minimal registry dispatching by message path.
type routes map[string]custody.Handler

func (r routes) Handle(m custody.Msg, h custody.Handler) {
	r[m.Path()] = h
}

func (r routes) handler(t testing.TB, m custody.Msg) custody.Handler {
	t.Helper()
	h, ok := r[m.Path()]
	require.True(t, ok, "no handler for %q", m.Path())
	return h
}
