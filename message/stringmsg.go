package message

import (
	"encoding/binary"

	"openigtl/protocol"
)

// MIBenum character encoding values used by String/Command.
const (
	EncodingUSASCII = 3
	EncodingUTF8    = 106
)

// String carries an encoded, length-prefixed text payload, e.g. a log
// line or a free-form annotation.
type String struct {
	Encoding uint16
	Text     string
}

func NewUTF8String(text string) String {
	return String{Encoding: EncodingUTF8, Text: text}
}

func (String) TypeName() string { return "STRING" }

func (s String) EncodeBody() ([]byte, error) {
	if len(s.Text) > 65535 {
		return nil, protocol.ErrBodyTooLarge(uint64(len(s.Text)), 65535)
	}
	buf := make([]byte, 4+len(s.Text))
	binary.BigEndian.PutUint16(buf[0:2], s.Encoding)
	binary.BigEndian.PutUint16(buf[2:4], uint16(len(s.Text)))
	copy(buf[4:], s.Text)
	return buf, nil
}

func DecodeString(data []byte) (Body, error) {
	if len(data) < 4 {
		return nil, protocol.ErrInvalidSize(4, uint64(len(data)), "STRING header")
	}
	encoding := binary.BigEndian.Uint16(data[0:2])
	length := binary.BigEndian.Uint16(data[2:4])
	if uint64(len(data)-4) != uint64(length) {
		return nil, protocol.ErrInvalidSize(uint64(length), uint64(len(data)-4), "STRING body length")
	}
	return String{Encoding: encoding, Text: string(data[4:])}, nil
}
