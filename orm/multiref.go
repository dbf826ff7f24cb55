package orm

import (
	"bytes"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody/errors"
)

// MultiRef is the list of primary keys a non unique index value points to.
type MultiRef struct {
	Refs [][]byte `protobuf:"bytes,1,rep,name=refs,proto3" json:"refs,omitempty"`
}

type multiRefWire MultiRef

func (m *multiRefWire) Reset()         { *m = multiRefWire{} }
func (m *multiRefWire) String() string { return proto.CompactTextString(m) }
func (*multiRefWire) ProtoMessage()    {}

// Marshal encodes the references as protobuf
func (m *MultiRef) Marshal() ([]byte, error) {
	return proto.Marshal((*multiRefWire)(m))
}

// Unmarshal decodes protobuf encoded references
func (m *MultiRef) Unmarshal(bz []byte) error {
	return proto.Unmarshal(bz, (*multiRefWire)(m))
}

// Validate rejects an empty list
func (m *MultiRef) Validate() error {
	if len(m.Refs) == 0 {
		return errors.Wrap(errors.ErrEmpty, "refs")
	}
	return nil
}

// Add inserts ref keeping the list sorted. Adding an existing ref fails.
func (m *MultiRef) Add(ref []byte) error {
	i, found := m.find(ref)
	if found {
		return errors.Wrap(errors.ErrDuplicate, "ref already present")
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

// Remove deletes ref. Removing a missing ref fails.
func (m *MultiRef) Remove(ref []byte) error {
	i, found := m.find(ref)
	if !found {
		return errors.Wrap(errors.ErrNotFound, "ref")
	}
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

func (m *MultiRef) find(ref []byte) (int, bool) {
	for i, r := range m.Refs {
		switch bytes.Compare(r, ref) {
		case 0:
			return i, true
		case 1:
			return i, false
		}
	}
	return len(m.Refs), false
}
