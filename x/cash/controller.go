package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// Controller is the functionality needed by cash.Handler and the
// extensions keeping funds in program owned accounts.
type Controller interface {
	// Balance returns the funds held by addr, zero for a missing account.
	Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error)
	// MinimumBalance returns the reserve an account storing size bytes
	// must hold.
	MinimumBalance(db custody.ReadOnlyKVStore, size int) (uint64, error)
	// CreateAccount assigns addr to program, funded with amount taken
	// from funder.
	CreateAccount(db custody.KVStore, program, addr, funder custody.Address, amount uint64) error
	// Transfer moves amount out of an account owned by program.
	Transfer(db custody.KVStore, program, src, dest custody.Address, amount uint64) error
	// CloseAccount moves the whole balance of an account owned by
	// program to beneficiary and removes the account.
	CloseAccount(db custody.KVStore, program, addr, beneficiary custody.Address) (uint64, error)
	// MoveCoins moves amount between key controlled accounts.
	MoveCoins(db custody.KVStore, src, dest custody.Address, amount uint64) error
}

// BaseController is a simple implementation of Controller.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller keeping accounts in bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the funds held by addr.
func (c BaseController) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error) {
	obj, err := c.bucket.Get(db, addr)
	if err != nil {
		return 0, err
	}
	if w := AsWallet(obj); w != nil {
		return w.Balance, nil
	}
	return 0, nil
}

// MinimumBalance computes the reserve from the stored configuration.
func (c BaseController) MinimumBalance(db custody.ReadOnlyKVStore, size int) (uint64, error) {
	conf, err := loadConf(db)
	if err != nil {
		return 0, err
	}
	return conf.reserve(size)
}

// CreateAccount assigns addr to program and moves amount from funder into
// it. An account that already received funds but has no owner is adopted
// together with its balance. An account already owned by any program
// cannot be created again.
func (c BaseController) CreateAccount(db custody.KVStore, program, addr, funder custody.Address, amount uint64) error {
	if err := program.Validate(); err != nil {
		return errors.Wrap(err, "program")
	}
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	account, err := c.bucket.GetOrCreate(db, addr)
	if err != nil {
		return err
	}
	if len(AsWallet(account).Owner) != 0 {
		return errors.Wrapf(errors.ErrDuplicate, "account %s already owned", addr)
	}
	if addr.Equals(funder) {
		return errors.Wrap(errors.ErrInput, "account cannot fund itself")
	}

	source, err := c.keyControlled(db, funder)
	if err != nil {
		return errors.Wrap(err, "funder")
	}
	if err := AsWallet(source).subtract(amount); err != nil {
		return err
	}
	w := AsWallet(account)
	if err := w.add(amount); err != nil {
		return err
	}
	w.Owner = program

	if err := c.bucket.Save(db, source); err != nil {
		return err
	}
	return c.bucket.Save(db, account)
}

// Transfer moves amount from src, owned by program, to dest.
func (c BaseController) Transfer(db custody.KVStore, program, src, dest custody.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}
	source, err := c.ownedBy(db, program, src)
	if err != nil {
		return err
	}
	return c.move(db, source, dest, amount)
}

// CloseAccount empties addr, owned by program, into beneficiary and
// deletes it. It returns the amount moved.
func (c BaseController) CloseAccount(db custody.KVStore, program, addr, beneficiary custody.Address) (uint64, error) {
	if addr.Equals(beneficiary) {
		return 0, errors.Wrap(errors.ErrInput, "account cannot be closed into itself")
	}
	account, err := c.ownedBy(db, program, addr)
	if err != nil {
		return 0, err
	}
	amount := AsWallet(account).Balance
	if amount > 0 {
		if err := c.move(db, account, beneficiary, amount); err != nil {
			return 0, err
		}
	}
	if err := c.bucket.Delete(db, addr); err != nil {
		return 0, errors.Wrap(err, "delete account")
	}
	return amount, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, is owned by a program or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db custody.KVStore, src, dest custody.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	sender, err := c.keyControlled(db, src)
	if err != nil {
		return err
	}
	return c.move(db, sender, dest, amount)
}

// CoinMint adds amount to the balance of dest, creating a key controlled
// account if needed. It is used to load the genesis state.
func (c BaseController) CoinMint(db custody.KVStore, dest custody.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := AsWallet(recipient).add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

func (c BaseController) move(db custody.KVStore, source orm.Object, dest custody.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if dest.Equals(source.Key()) {
		return errors.Wrap(errors.ErrInput, "source and destination are the same")
	}
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := AsWallet(source).subtract(amount); err != nil {
		return err
	}
	if err := AsWallet(recipient).add(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(db, source); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

// keyControlled loads an existing account without an owner.
func (c BaseController) keyControlled(db custody.ReadOnlyKVStore, addr custody.Address) (orm.Object, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	obj, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrEmpty, "account %s", addr)
	}
	if owner := AsWallet(obj).Owner; len(owner) != 0 {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "account %s is owned by program %s", addr, owner)
	}
	return obj, nil
}

// ownedBy loads an existing account owned by program.
func (c BaseController) ownedBy(db custody.ReadOnlyKVStore, program, addr custody.Address) (orm.Object, error) {
	obj, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "account %s", addr)
	}
	if !AsWallet(obj).IsOwnedBy(program) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "account %s is not owned by %s", addr, program)
	}
	return obj, nil
}
