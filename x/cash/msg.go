package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Ensure we implement the Msg interface
var _ custody.Msg = (*SendMsg)(nil)

const (
	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// SendMsg moves funds between two key controlled accounts.
type SendMsg struct {
	Source      custody.Address `protobuf:"bytes,1,opt,name=source,proto3,casttype=github.com/iov-one/custody.Address" json:"source"`
	Destination custody.Address `protobuf:"bytes,2,opt,name=destination,proto3,casttype=github.com/iov-one/custody.Address" json:"destination"`
	Amount      uint64          `protobuf:"varint,3,opt,name=amount,proto3" json:"amount"`
	Memo        string          `protobuf:"bytes,4,opt,name=memo,proto3" json:"memo,omitempty"`
}

type sendMsgWire SendMsg

func (m *sendMsgWire) Reset()         { *m = sendMsgWire{} }
func (m *sendMsgWire) String() string { return proto.CompactTextString(m) }
func (*sendMsgWire) ProtoMessage()    {}

func (s *SendMsg) Marshal() ([]byte, error)  { return proto.Marshal((*sendMsgWire)(s)) }
func (s *SendMsg) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*sendMsgWire)(s)) }

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	if s.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive SendMsg")
	}
	if err := s.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := s.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if s.Source.Equals(s.Destination) {
		return errors.Wrap(errors.ErrInput, "source and destination are the same")
	}
	if len(s.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInput, "memo too long")
	}
	return nil
}
