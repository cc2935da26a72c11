package message

import "openigtl/protocol"

// BindEntry names one child message carried by a BIND frame: the
// actual child payloads travel as separate frames immediately
// following this one, keyed by registration order.
type BindEntry struct {
	MessageType string // max 12
	DeviceName  string // max 20
}

const bindEntrySize = 12 + 20

// Bind groups references to multiple child messages for synchronized
// transmission.
type Bind struct{ Entries []BindEntry }

func (Bind) TypeName() string { return "BIND" }

func (b Bind) EncodeBody() ([]byte, error) {
	buf := make([]byte, 0, bindEntrySize*len(b.Entries))
	for _, e := range b.Entries {
		elem := make([]byte, bindEntrySize)
		protocol.PutFixedString(elem[0:12], e.MessageType)
		protocol.PutFixedString(elem[12:32], e.DeviceName)
		buf = append(buf, elem...)
	}
	return buf, nil
}

func DecodeBind(data []byte) (Body, error) {
	if len(data)%bindEntrySize != 0 {
		return nil, protocol.ErrInvalidSize(0, uint64(len(data)%bindEntrySize), "BIND residual bytes")
	}
	var b Bind
	for off := 0; off < len(data); off += bindEntrySize {
		elem := data[off : off+bindEntrySize]
		b.Entries = append(b.Entries, BindEntry{
			MessageType: protocol.GetFixedString(elem[0:12]),
			DeviceName:  protocol.GetFixedString(elem[12:32]),
		})
	}
	return b, nil
}
