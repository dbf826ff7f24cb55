package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the balance of a single account.
type Wallet struct {
	Balance uint64 `protobuf:"varint,1,opt,name=balance,proto3" json:"balance"`
	// Owner is the program that controls this account. It is empty for
	// accounts controlled by a key.
	Owner custody.Address `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/custody.Address" json:"owner,omitempty"`
}

type walletWire Wallet

func (m *walletWire) Reset()         { *m = walletWire{} }
func (m *walletWire) String() string { return proto.CompactTextString(m) }
func (*walletWire) ProtoMessage()    {}

func (w *Wallet) Marshal() ([]byte, error)  { return proto.Marshal((*walletWire)(w)) }
func (w *Wallet) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*walletWire)(w)) }

var _ orm.Model = (*Wallet)(nil)

// Validate checks the owner, if any.
func (w *Wallet) Validate() error {
	if len(w.Owner) != 0 {
		if err := w.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	return nil
}

// IsOwnedBy returns true if program owns this account.
func (w *Wallet) IsOwnedBy(program custody.Address) bool {
	return len(w.Owner) != 0 && w.Owner.Equals(program)
}

// add increases the balance, failing on overflow.
func (w *Wallet) add(amount uint64) error {
	sum := w.Balance + amount
	if sum < w.Balance {
		return errors.Wrapf(errors.ErrOverflow, "balance %d plus %d", w.Balance, amount)
	}
	w.Balance = sum
	return nil
}

// subtract decreases the balance, failing if it is too low.
func (w *Wallet) subtract(amount uint64) error {
	if w.Balance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, need %d", w.Balance, amount)
	}
	w.Balance -= amount
	return nil
}

// AsWallet will safely type-cast any value from Bucket to a Wallet
func AsWallet(obj orm.Object) *Wallet {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Wallet)
}

// NewWallet creates a key controlled account holding balance.
func NewWallet(addr custody.Address, balance uint64) orm.Object {
	return orm.NewSimpleObj(addr, &Wallet{Balance: balance})
}

//--- cash.Bucket - type-safe bucket

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with default name.
// Program owned accounts are indexed by their owner.
func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, NewWallet(nil, 0)).
		WithIndex("owner", ownerIndexer, false)
	return Bucket{Bucket: b}
}

func ownerIndexer(obj orm.Object) ([]byte, error) {
	w := AsWallet(obj)
	if w == nil {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	// key controlled accounts are not indexed
	if len(w.Owner) == 0 {
		return nil, nil
	}
	return w.Owner, nil
}

// GetOrCreate returns the account stored under addr, or a new empty one.
func (b Bucket) GetOrCreate(db custody.ReadOnlyKVStore, addr custody.Address) (orm.Object, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		obj = NewWallet(addr, 0)
	}
	return obj, nil
}
