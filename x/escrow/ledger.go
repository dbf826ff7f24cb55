package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
)

// Ledger moves native currency in and out of custody accounts and keeps
// their escrow state. Every custody account is owned by the program, so
// only escrow handlers may move funds out of it.
type Ledger interface {
	// Program returns the identity custody accounts are owned by.
	Program(db custody.ReadOnlyKVStore) (custody.Address, error)
	// Reserve returns the minimum balance of a custody account.
	Reserve(db custody.ReadOnlyKVStore) (uint64, error)
	// Balance returns the funds held by addr.
	Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error)
	// Load returns the escrow stored at holding, or nil.
	Load(db custody.ReadOnlyKVStore, holding custody.Address) (*EscrowAccount, error)
	// CreateAccount allocates holding, funded by the payer with
	// initialBalance, and stores its state.
	CreateAccount(db custody.KVStore, holding custody.Address, initialBalance uint64, state *EscrowAccount) error
	// Save updates the state of an existing escrow.
	Save(db custody.KVStore, holding custody.Address, state *EscrowAccount) error
	// Transfer moves amount out of holding.
	Transfer(db custody.KVStore, holding, to custody.Address, amount uint64) error
	// CloseAccount moves what remains in holding to beneficiary and
	// removes both the account and its state.
	CloseAccount(db custody.KVStore, holding, beneficiary custody.Address) (uint64, error)
}

// CashLedger is a Ledger backed by cash accounts.
type CashLedger struct {
	bank   cash.Controller
	bucket Bucket
}

var _ Ledger = CashLedger{}

// NewCashLedger returns a ledger keeping funds in bank.
func NewCashLedger(bank cash.Controller) CashLedger {
	return CashLedger{bank: bank, bucket: NewBucket()}
}

// Program reads the program identity from the configuration.
func (l CashLedger) Program(db custody.ReadOnlyKVStore) (custody.Address, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	return conf.ProgramID, nil
}

// Reserve returns the minimum balance of an account of AccountSize.
func (l CashLedger) Reserve(db custody.ReadOnlyKVStore) (uint64, error) {
	return l.bank.MinimumBalance(db, AccountSize)
}

// Balance returns the funds held by addr.
func (l CashLedger) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error) {
	return l.bank.Balance(db, addr)
}

// Load returns the escrow stored at holding, or nil.
func (l CashLedger) Load(db custody.ReadOnlyKVStore, holding custody.Address) (*EscrowAccount, error) {
	obj, err := l.bucket.Get(db, holding)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load escrow from the store")
	}
	return AsEscrow(obj), nil
}

// CreateAccount allocates holding and stores state.
func (l CashLedger) CreateAccount(db custody.KVStore, holding custody.Address, initialBalance uint64, state *EscrowAccount) error {
	program, err := l.Program(db)
	if err != nil {
		return err
	}
	if err := l.bank.CreateAccount(db, program, holding, state.Payer, initialBalance); err != nil {
		return errors.Wrap(err, "create custody account")
	}
	return l.Save(db, holding, state)
}

// Save updates the state stored at holding.
func (l CashLedger) Save(db custody.KVStore, holding custody.Address, state *EscrowAccount) error {
	if err := l.bucket.Save(db, NewEscrow(holding, state)); err != nil {
		return errors.Wrap(err, "cannot store escrow")
	}
	return nil
}

// Transfer moves amount out of holding.
func (l CashLedger) Transfer(db custody.KVStore, holding, to custody.Address, amount uint64) error {
	program, err := l.Program(db)
	if err != nil {
		return err
	}
	return l.bank.Transfer(db, program, holding, to, amount)
}

// CloseAccount empties holding into beneficiary, then deletes the account
// and its state.
func (l CashLedger) CloseAccount(db custody.KVStore, holding, beneficiary custody.Address) (uint64, error) {
	program, err := l.Program(db)
	if err != nil {
		return 0, err
	}
	amount, err := l.bank.CloseAccount(db, program, holding, beneficiary)
	if err != nil {
		return 0, errors.Wrap(err, "close custody account")
	}
	if err := l.bucket.Delete(db, holding); err != nil {
		return 0, errors.Wrap(err, "cannot delete escrow")
	}
	return amount, nil
}
