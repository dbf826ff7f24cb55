package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
)

// Tx is the transaction accepted by escrowd. Exactly one message field
// must be set.
type Tx struct {
	Signatures         []*sigs.StdSignature       `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	SendMsg            *cash.SendMsg              `protobuf:"bytes,2,opt,name=send_msg,proto3" json:"send_msg,omitempty"`
	InitializeMsg      *escrow.InitializeMsg      `protobuf:"bytes,3,opt,name=initialize_msg,proto3" json:"initialize_msg,omitempty"`
	PayerCancelMsg     *escrow.PayerCancelMsg     `protobuf:"bytes,4,opt,name=payer_cancel_msg,proto3" json:"payer_cancel_msg,omitempty"`
	ReceiverConfirmMsg *escrow.ReceiverConfirmMsg `protobuf:"bytes,5,opt,name=receiver_confirm_msg,proto3" json:"receiver_confirm_msg,omitempty"`
	PayerConfirmMsg    *escrow.PayerConfirmMsg    `protobuf:"bytes,6,opt,name=payer_confirm_msg,proto3" json:"payer_confirm_msg,omitempty"`
}

type txWire Tx

func (m *txWire) Reset()         { *m = txWire{} }
func (m *txWire) String() string { return proto.CompactTextString(m) }
func (*txWire) ProtoMessage()    {}

func (tx *Tx) Marshal() ([]byte, error)  { return proto.Marshal((*txWire)(tx)) }
func (tx *Tx) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*txWire)(tx)) }

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (custody.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "decode tx: %s", err)
	}
	return tx, nil
}

// make sure tx fulfills all interfaces
var _ custody.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// GetMsg returns the single message carried by the transaction.
func (tx *Tx) GetMsg() (custody.Msg, error) {
	var msgs []custody.Msg
	if tx.SendMsg != nil {
		msgs = append(msgs, tx.SendMsg)
	}
	if tx.InitializeMsg != nil {
		msgs = append(msgs, tx.InitializeMsg)
	}
	if tx.PayerCancelMsg != nil {
		msgs = append(msgs, tx.PayerCancelMsg)
	}
	if tx.ReceiverConfirmMsg != nil {
		msgs = append(msgs, tx.ReceiverConfirmMsg)
	}
	if tx.PayerConfirmMsg != nil {
		msgs = append(msgs, tx.PayerConfirmMsg)
	}

	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrMsg, "transaction carries no message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "transaction carries %d messages", len(msgs))
	}
}

// SetMsg stores msg in the matching field, clearing any other message.
func (tx *Tx) SetMsg(msg custody.Msg) error {
	signatures := tx.Signatures
	*tx = Tx{Signatures: signatures}

	switch m := msg.(type) {
	case *cash.SendMsg:
		tx.SendMsg = m
	case *escrow.InitializeMsg:
		tx.InitializeMsg = m
	case *escrow.PayerCancelMsg:
		tx.PayerCancelMsg = m
	case *escrow.ReceiverConfirmMsg:
		tx.ReceiverConfirmMsg = m
	case *escrow.PayerConfirmMsg:
		tx.PayerConfirmMsg = m
	default:
		return errors.WithType(errors.ErrType, msg)
	}
	return nil
}

// GetSignatures returns the signatures collected so far.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	signatures := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = signatures
	return bz, err
}
