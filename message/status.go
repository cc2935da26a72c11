package message

import (
	"encoding/binary"

	"openigtl/protocol"
)

const (
	statusErrorNameWidth = 20
	statusMinBodySize    = 2 + 8 + statusErrorNameWidth + 1 // code + subcode + name + terminator
)

// Status codes, per the wire convention: 0 is invalid, 1 is OK,
// anything else is device-specific.
const (
	StatusInvalid = 0
	StatusOK      = 1
)

// Status notifies the receiver of the sender's current status.
type Status struct {
	Code         uint16
	Subcode      int64
	ErrorName    string
	StatusString string
}

func NewOKStatus(statusString string) Status {
	return Status{Code: StatusOK, StatusString: statusString}
}

func NewErrorStatus(errorName, statusString string) Status {
	return Status{Code: StatusInvalid, ErrorName: errorName, StatusString: statusString}
}

func (Status) TypeName() string { return "STATUS" }

func (s Status) EncodeBody() ([]byte, error) {
	buf := make([]byte, statusMinBodySize+len(s.StatusString))
	binary.BigEndian.PutUint16(buf[0:2], s.Code)
	binary.BigEndian.PutUint64(buf[2:10], uint64(s.Subcode))
	protocol.PutFixedString(buf[10:10+statusErrorNameWidth], s.ErrorName)
	statusOffset := 10 + statusErrorNameWidth
	copy(buf[statusOffset:], s.StatusString)
	// last byte is left zero as the NUL terminator
	return buf, nil
}

func DecodeStatus(data []byte) (Body, error) {
	if len(data) < statusMinBodySize {
		return nil, protocol.ErrInvalidSize(statusMinBodySize, uint64(len(data)), "STATUS body")
	}
	code := binary.BigEndian.Uint16(data[0:2])
	subcode := int64(binary.BigEndian.Uint64(data[2:10]))
	errorName := protocol.GetFixedString(data[10 : 10+statusErrorNameWidth])

	statusOffset := 10 + statusErrorNameWidth
	rest := data[statusOffset:]
	n := len(rest)
	for i, b := range rest {
		if b == 0 {
			n = i
			break
		}
	}
	return Status{
		Code:         code,
		Subcode:      subcode,
		ErrorName:    errorName,
		StatusString: string(rest[:n]),
	}, nil
}
