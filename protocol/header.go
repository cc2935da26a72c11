package protocol

import (
	"encoding/binary"
	"time"
)

// Size is the fixed length in bytes of an OpenIGTLink header.
const Size = 58

const (
	typeNameWidth   = 12
	deviceNameWidth = 20
)

// Timestamp is the OpenIGTLink wire timestamp: the upper 32 bits of the
// 64-bit field are seconds since the Unix epoch, the lower 32 bits are
// fractional seconds in units of 2^-32 s. This gives nanosecond-grade
// precision without a 96-bit field, which matters at the 1kHz update
// rates typical of optical/EM tracking streams.
type Timestamp struct {
	Seconds  uint32
	Fraction uint32
}

// Zero is the timestamp with no meaningful value (both fields zero).
var Zero = Timestamp{}

// Now returns the current time as a Timestamp.
func Now() Timestamp { return FromTime(time.Now()) }

// FromTime converts a time.Time to a Timestamp, rounding down to a whole
// 2^-32 s unit.
func FromTime(t time.Time) Timestamp {
	return FromNanos(uint64(t.UnixNano()))
}

// ToTime converts a Timestamp to a time.Time (UTC).
func (t Timestamp) ToTime() time.Time {
	return time.Unix(0, int64(t.ToNanos())).UTC()
}

// FromNanos builds a Timestamp from nanoseconds since the Unix epoch.
func FromNanos(nanos uint64) Timestamp {
	seconds := uint32(nanos / 1e9)
	remainder := nanos % 1e9
	fraction := uint32((remainder << 32) / 1e9)
	return Timestamp{Seconds: seconds, Fraction: fraction}
}

// ToNanos converts the Timestamp to nanoseconds since the Unix epoch.
func (t Timestamp) ToNanos() uint64 {
	secNanos := uint64(t.Seconds) * 1e9
	fracNanos := (uint64(t.Fraction) * 1e9) >> 32
	return secNanos + fracNanos
}

// ToU64 packs the Timestamp into its 64-bit wire representation.
func (t Timestamp) ToU64() uint64 {
	return uint64(t.Seconds)<<32 | uint64(t.Fraction)
}

// TimestampFromU64 unpacks a 64-bit wire value into a Timestamp. The
// round trip through ToU64/TimestampFromU64 is bit-exact by
// construction (no floating point involved).
func TimestampFromU64(v uint64) Timestamp {
	return Timestamp{Seconds: uint32(v >> 32), Fraction: uint32(v)}
}

// Header is the fixed 58-byte frame header that precedes every
// OpenIGTLink message body.
type Header struct {
	Version    uint16
	TypeName   string // e.g. "TRANSFORM"; must fit in 12 ASCII bytes
	DeviceName string // must fit in 20 ASCII bytes
	Timestamp  Timestamp
	BodySize   uint64
	CRC        uint64
}

// Encode writes the header to a fresh 58-byte slice. TypeName and
// DeviceName are validated here rather than truncated: a name wider
// than its slot is a construction error, never a silent truncation.
func (h *Header) Encode() ([]byte, error) {
	buf := make([]byte, Size)

	typeBytes, err := encodeASCIIStrict(h.TypeName, typeNameWidth)
	if err != nil {
		return nil, errInvalidHeader("type name %q does not fit in %d bytes: %v", h.TypeName, typeNameWidth, err)
	}
	deviceBytes, err := encodeASCIIStrict(h.DeviceName, deviceNameWidth)
	if err != nil {
		return nil, errInvalidHeader("device name %q does not fit in %d bytes: %v", h.DeviceName, deviceNameWidth, err)
	}

	binary.BigEndian.PutUint16(buf[0:2], h.Version)
	copy(buf[2:14], typeBytes)
	copy(buf[14:34], deviceBytes)
	binary.BigEndian.PutUint64(buf[34:42], h.Timestamp.ToU64())
	binary.BigEndian.PutUint64(buf[42:50], h.BodySize)
	binary.BigEndian.PutUint64(buf[50:58], h.CRC)

	return buf, nil
}

// Decode parses a Header from the first 58 bytes of buf. Type and
// device names that contain non-ASCII bytes before their first NUL are
// rejected with KindInvalidHeader.
func Decode(buf []byte) (*Header, error) {
	if len(buf) < Size {
		return nil, errInvalidSize(Size, uint64(len(buf)), "header requires %d bytes", Size)
	}

	typeName, err := decodeASCII(buf[2:14])
	if err != nil {
		return nil, errInvalidHeader("type name: %v", err)
	}
	deviceName, err := decodeASCII(buf[14:34])
	if err != nil {
		return nil, errInvalidHeader("device name: %v", err)
	}

	return &Header{
		Version:    binary.BigEndian.Uint16(buf[0:2]),
		TypeName:   typeName,
		DeviceName: deviceName,
		Timestamp:  TimestampFromU64(binary.BigEndian.Uint64(buf[34:42])),
		BodySize:   binary.BigEndian.Uint64(buf[42:50]),
		CRC:        binary.BigEndian.Uint64(buf[50:58]),
	}, nil
}
