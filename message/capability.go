package message

import (
	"encoding/binary"

	"openigtl/protocol"
)

// Capability advertises the set of message type names a sender
// supports, in response to a GET_CAPABIL query.
type Capability struct {
	TypeNames []string
}

func (Capability) TypeName() string { return "CAPABILITY" }

func (c Capability) EncodeBody() ([]byte, error) {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(len(c.TypeNames)))
	for _, name := range c.TypeNames {
		buf = append(buf, name...)
		buf = append(buf, 0)
	}
	return buf, nil
}

func DecodeCapability(data []byte) (Body, error) {
	if len(data) < 4 {
		return nil, protocol.ErrInvalidSize(4, uint64(len(data)), "CAPABILITY count")
	}
	count := binary.BigEndian.Uint32(data[0:4])
	rest := data[4:]
	names := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		idx := -1
		for j, b := range rest {
			if b == 0 {
				idx = j
				break
			}
		}
		if idx < 0 {
			return nil, protocol.ErrInvalidSize(uint64(count), uint64(i), "CAPABILITY type name %d missing NUL terminator", i)
		}
		names = append(names, string(rest[:idx]))
		rest = rest[idx+1:]
	}
	if len(rest) != 0 {
		return nil, protocol.ErrInvalidSize(0, uint64(len(rest)), "CAPABILITY has residual bytes after %d names", count)
	}
	return Capability{TypeNames: names}, nil
}
