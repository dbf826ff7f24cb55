package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where we store the escrows
const BucketName = "escrow"

// AccountSize is the size of the persisted escrow layout: two identities,
// the amount, the bump and the state. The reserve of a custody account is
// computed for this size.
const AccountSize = 2*custody.AddressLength + 8 + 1 + 1

// State is the stage an escrow reached. A closed escrow is not stored.
type State int32

const (
	StateUninitialized     State = 0
	StateInitialized       State = 1
	StateReceiverConfirmed State = 2
)

var stateNames = map[State]string{
	StateUninitialized:     "uninitialized",
	StateInitialized:       "initialized",
	StateReceiverConfirmed: "receiver_confirmed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// EscrowAccount is the state of one custody account.
type EscrowAccount struct {
	Payer    custody.Address `protobuf:"bytes,1,opt,name=payer,proto3,casttype=github.com/iov-one/custody.Address" json:"payer"`
	Receiver custody.Address `protobuf:"bytes,2,opt,name=receiver,proto3,casttype=github.com/iov-one/custody.Address" json:"receiver"`
	Amount   uint64          `protobuf:"varint,3,opt,name=amount,proto3" json:"amount"`
	Bump     uint32          `protobuf:"varint,4,opt,name=bump,proto3" json:"bump"`
	State    State           `protobuf:"varint,5,opt,name=state,proto3" json:"state"`
}

type escrowAccountWire EscrowAccount

func (m *escrowAccountWire) Reset()         { *m = escrowAccountWire{} }
func (m *escrowAccountWire) String() string { return proto.CompactTextString(m) }
func (*escrowAccountWire) ProtoMessage()    {}

func (e *EscrowAccount) Marshal() ([]byte, error) {
	return proto.Marshal((*escrowAccountWire)(e))
}

func (e *EscrowAccount) Unmarshal(bz []byte) error {
	return proto.Unmarshal(bz, (*escrowAccountWire)(e))
}

var _ orm.Model = (*EscrowAccount)(nil)

// Validate ensures the escrow is valid. Only live escrows are stored.
func (e *EscrowAccount) Validate() error {
	if err := validateParties(e.Payer, e.Receiver); err != nil {
		return err
	}
	if e.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "amount")
	}
	if err := validateBump(e.Bump); err != nil {
		return err
	}
	switch e.State {
	case StateInitialized, StateReceiverConfirmed:
		return nil
	default:
		return errors.Wrapf(errors.ErrState, "cannot store %s escrow", e.State)
	}
}

func validateParties(payer, receiver custody.Address) error {
	if err := payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	if err := receiver.Validate(); err != nil {
		return errors.Wrap(err, "receiver")
	}
	if payer.Equals(receiver) {
		return errors.Wrap(errors.ErrInput, "payer and receiver must differ")
	}
	return nil
}

func validateBump(bump uint32) error {
	if bump > 255 {
		return errors.Wrapf(errors.ErrInput, "bump %d out of range", bump)
	}
	return nil
}

// AsEscrow will safely type-cast any value from Bucket to an EscrowAccount
func AsEscrow(obj orm.Object) *EscrowAccount {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*EscrowAccount)
}

// NewEscrow wraps the escrow stored under the custody address.
func NewEscrow(holding custody.Address, e *EscrowAccount) orm.Object {
	return orm.NewSimpleObj(holding, e)
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a Bucket with payer and receiver indexes.
func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, NewEscrow(nil, new(EscrowAccount))).
		WithIndex("payer", payerIndexer, false).
		WithIndex("receiver", receiverIndexer, false)
	return Bucket{Bucket: b}
}

func payerIndexer(obj orm.Object) ([]byte, error) {
	e := AsEscrow(obj)
	if e == nil {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return e.Payer, nil
}

func receiverIndexer(obj orm.Object) ([]byte, error) {
	e := AsEscrow(obj)
	if e == nil {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return e.Receiver, nil
}
