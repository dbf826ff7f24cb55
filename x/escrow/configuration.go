package escrow

import (
	"crypto/sha256"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

// DefaultProgramID is used when the genesis file configures no program
// identity.
var DefaultProgramID = func() custody.Address {
	h := sha256.Sum256([]byte("custody/escrow"))
	return custody.Address(h[:])
}()

// Configuration holds the identity custody addresses are derived under.
type Configuration struct {
	ProgramID custody.Address `protobuf:"bytes,1,opt,name=program_id,proto3,casttype=github.com/iov-one/custody.Address" json:"program_id"`
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

// Validate requires a program identity.
func (c *Configuration) Validate() error {
	if err := c.ProgramID.Validate(); err != nil {
		return errors.Wrap(err, "program id")
	}
	return nil
}

func loadConf(db custody.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "escrow", &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
