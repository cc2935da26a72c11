package message

import (
	"encoding/binary"

	"openigtl/protocol"
)

const (
	commandNameWidth = 20
	commandHeaderSize = 4 + commandNameWidth + 2 + 4
)

// Command carries a command string (typically XML) identified by a
// sender-assigned id and short name, used for device control RPCs
// layered on top of the message-level protocol.
type Command struct {
	ID       uint32
	Name     string // max 20
	Encoding uint16 // MIBenum, default EncodingUSASCII
	Text     string
}

func NewCommand(id uint32, name, text string) Command {
	return Command{ID: id, Name: name, Encoding: EncodingUSASCII, Text: text}
}

func (Command) TypeName() string { return "COMMAND" }

func (c Command) EncodeBody() ([]byte, error) {
	buf := make([]byte, commandHeaderSize+len(c.Text))
	binary.BigEndian.PutUint32(buf[0:4], c.ID)
	protocol.PutFixedString(buf[4:4+commandNameWidth], c.Name)
	off := 4 + commandNameWidth
	binary.BigEndian.PutUint16(buf[off:off+2], c.Encoding)
	binary.BigEndian.PutUint32(buf[off+2:off+6], uint32(len(c.Text)))
	copy(buf[off+6:], c.Text)
	return buf, nil
}

func DecodeCommand(data []byte) (Body, error) {
	if len(data) < commandHeaderSize {
		return nil, protocol.ErrInvalidSize(commandHeaderSize, uint64(len(data)), "COMMAND header")
	}
	id := binary.BigEndian.Uint32(data[0:4])
	name := protocol.GetFixedString(data[4 : 4+commandNameWidth])
	off := 4 + commandNameWidth
	encoding := binary.BigEndian.Uint16(data[off : off+2])
	length := binary.BigEndian.Uint32(data[off+2 : off+6])
	text := data[off+6:]
	if uint64(len(text)) != uint64(length) {
		return nil, protocol.ErrInvalidSize(uint64(length), uint64(len(text)), "COMMAND text length")
	}
	return Command{ID: id, Name: name, Encoding: encoding, Text: string(text)}, nil
}
