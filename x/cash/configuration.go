package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

// Configuration holds the minimum balance rule. An account storing size
// bytes of state must hold at least ReserveBase + ReservePerByte*size to
// stay alive.
type Configuration struct {
	ReserveBase    uint64 `protobuf:"varint,1,opt,name=reserve_base,proto3" json:"reserve_base"`
	ReservePerByte uint64 `protobuf:"varint,2,opt,name=reserve_per_byte,proto3" json:"reserve_per_byte"`
}

type configurationWire Configuration

func (m *configurationWire) Reset()         { *m = configurationWire{} }
func (m *configurationWire) String() string { return proto.CompactTextString(m) }
func (*configurationWire) ProtoMessage()    {}

func (c *Configuration) Marshal() ([]byte, error) {
	return proto.Marshal((*configurationWire)(c))
}

func (c *Configuration) Unmarshal(bz []byte) error {
	return proto.Unmarshal(bz, (*configurationWire)(c))
}

// Validate makes sure the reserve of the largest account we could store
// does not overflow.
func (c *Configuration) Validate() error {
	if _, err := c.reserve(maxAccountSize); err != nil {
		return errors.Wrap(err, "reserve")
	}
	return nil
}

// maxAccountSize bounds the state an account may declare.
const maxAccountSize = 10 * 1024

func (c *Configuration) reserve(size int) (uint64, error) {
	if size < 0 || size > maxAccountSize {
		return 0, errors.Wrapf(errors.ErrInput, "account size %d", size)
	}
	perByte := c.ReservePerByte * uint64(size)
	if size != 0 && perByte/uint64(size) != c.ReservePerByte {
		return 0, errors.Wrap(errors.ErrOverflow, "per byte reserve")
	}
	total := c.ReserveBase + perByte
	if total < perByte {
		return 0, errors.Wrap(errors.ErrOverflow, "reserve")
	}
	return total, nil
}

func loadConf(db custody.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "cash", &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
