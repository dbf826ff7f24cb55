package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const (
	pathInitialize      = "escrow/initialize"
	pathPayerCancel     = "escrow/payer_cancel"
	pathReceiverConfirm = "escrow/receiver_confirm"
	pathPayerConfirm    = "escrow/payer_confirm"
)

var (
	_ custody.Msg = (*InitializeMsg)(nil)
	_ custody.Msg = (*PayerCancelMsg)(nil)
	_ custody.Msg = (*ReceiverConfirmMsg)(nil)
	_ custody.Msg = (*PayerConfirmMsg)(nil)
)

// InitializeMsg opens an escrow, moving Amount plus the account reserve
// from the payer into the custody account.
type InitializeMsg struct {
	Payer          custody.Address `protobuf:"bytes,1,opt,name=payer,proto3,casttype=github.com/iov-one/custody.Address" json:"payer"`
	Receiver       custody.Address `protobuf:"bytes,2,opt,name=receiver,proto3,casttype=github.com/iov-one/custody.Address" json:"receiver"`
	HoldingAccount custody.Address `protobuf:"bytes,3,opt,name=holding_account,proto3,casttype=github.com/iov-one/custody.Address" json:"holding_account"`
	Amount         uint64          `protobuf:"varint,4,opt,name=amount,proto3" json:"amount"`
}

type initializeMsgWire InitializeMsg

func (m *initializeMsgWire) Reset()         { *m = initializeMsgWire{} }
func (m *initializeMsgWire) String() string { return proto.CompactTextString(m) }
func (*initializeMsgWire) ProtoMessage()    {}

func (m *InitializeMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*initializeMsgWire)(m))
}

func (m *InitializeMsg) Unmarshal(bz []byte) error {
	return proto.Unmarshal(bz, (*initializeMsgWire)(m))
}

// Path returns the routing path for this message
func (InitializeMsg) Path() string {
	return pathInitialize
}

// Validate makes sure that this is sensible
func (m *InitializeMsg) Validate() error {
	if err := validateParties(m.Payer, m.Receiver); err != nil {
		return err
	}
	if err := m.HoldingAccount.Validate(); err != nil {
		return errors.Wrap(err, "holding account")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	return nil
}

// reference names an existing escrow. Every message acting on an escrow
// carries the same fields.
type reference struct {
	Payer          custody.Address `protobuf:"bytes,1,opt,name=payer,proto3,casttype=github.com/iov-one/custody.Address" json:"payer"`
	Receiver       custody.Address `protobuf:"bytes,2,opt,name=receiver,proto3,casttype=github.com/iov-one/custody.Address" json:"receiver"`
	HoldingAccount custody.Address `protobuf:"bytes,3,opt,name=holding_account,proto3,casttype=github.com/iov-one/custody.Address" json:"holding_account"`
	Bump           uint32          `protobuf:"varint,4,opt,name=bump,proto3" json:"bump"`
}

func (r *reference) Reset()         { *r = reference{} }
func (r *reference) String() string { return proto.CompactTextString(r) }
func (*reference) ProtoMessage()    {}

func (r *reference) validate() error {
	if err := validateParties(r.Payer, r.Receiver); err != nil {
		return err
	}
	if err := r.HoldingAccount.Validate(); err != nil {
		return errors.Wrap(err, "holding account")
	}
	return validateBump(r.Bump)
}

// PayerCancelMsg returns the whole custody balance to the payer before the
// receiver confirmed.
type PayerCancelMsg reference

// ReceiverConfirmMsg records the receiver's consent.
type ReceiverConfirmMsg reference

// PayerConfirmMsg settles a confirmed escrow.
type PayerConfirmMsg reference

func (m *PayerCancelMsg) Marshal() ([]byte, error)  { return proto.Marshal((*reference)(m)) }
func (m *PayerCancelMsg) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*reference)(m)) }
func (PayerCancelMsg) Path() string                 { return pathPayerCancel }
func (m *PayerCancelMsg) Validate() error           { return (*reference)(m).validate() }

func (m *ReceiverConfirmMsg) Marshal() ([]byte, error)  { return proto.Marshal((*reference)(m)) }
func (m *ReceiverConfirmMsg) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*reference)(m)) }
func (ReceiverConfirmMsg) Path() string                 { return pathReceiverConfirm }
func (m *ReceiverConfirmMsg) Validate() error           { return (*reference)(m).validate() }

func (m *PayerConfirmMsg) Marshal() ([]byte, error)  { return proto.Marshal((*reference)(m)) }
func (m *PayerConfirmMsg) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*reference)(m)) }
func (PayerConfirmMsg) Path() string                 { return pathPayerConfirm }
func (m *PayerConfirmMsg) Validate() error           { return (*reference)(m).validate() }
