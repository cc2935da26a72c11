package protocol

import "fmt"

func isPrintableASCII(b byte) bool { return b >= 0x20 && b < 0x7f }

// encodeASCIIStrict encodes s into a width-byte, NUL-padded slot,
// rejecting any s that does not fit (len(s) > width). Used for the
// header's TypeName/DeviceName, where the spec requires a construction
// error rather than silent truncation.
func encodeASCIIStrict(s string, width int) ([]byte, error) {
	if len(s) > width {
		return nil, fmt.Errorf("%d bytes exceeds %d-byte slot", len(s), width)
	}
	for i := 0; i < len(s); i++ {
		if !isPrintableASCII(s[i]) {
			return nil, fmt.Errorf("non-ASCII byte 0x%02x at offset %d", s[i], i)
		}
	}
	buf := make([]byte, width)
	copy(buf, s)
	return buf, nil
}

// decodeASCII reads an ASCII string from a NUL-padded slot: up to the
// first NUL byte, or the full slot if there is none. Any printable byte
// after the first NUL is ignored (it is padding); any non-ASCII,
// non-NUL byte before the first NUL is rejected.
func decodeASCII(slot []byte) (string, error) {
	n := len(slot)
	for i, b := range slot {
		if b == 0 {
			n = i
			break
		}
		if !isPrintableASCII(b) {
			return "", fmt.Errorf("non-ASCII byte 0x%02x at offset %d", b, i)
		}
	}
	return string(slot[:n]), nil
}

// PutFixedString encodes s into a width-byte slot that reserves one
// byte for a NUL terminator: inputs of exactly width-1 bytes are
// accepted verbatim, longer inputs are truncated to width-1 bytes, and
// the slot is always NUL-padded after the copied content. This is the
// body-field tie-break rule (distinct from the header's strict
// encodeASCIIStrict): STATUS's error-name, COMMAND's name, and similar
// in-body fixed-width strings all truncate rather than reject.
func PutFixedString(buf []byte, s string) {
	width := len(buf)
	for i := range buf {
		buf[i] = 0
	}
	n := len(s)
	if n > width-1 {
		n = width - 1
	}
	copy(buf, s[:n])
}

// GetFixedString reads a NUL-padded, possibly-truncated fixed-width
// string field (the counterpart to PutFixedString).
func GetFixedString(slot []byte) string {
	n := len(slot)
	for i, b := range slot {
		if b == 0 {
			n = i
			break
		}
	}
	return string(slot[:n])
}
