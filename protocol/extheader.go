package protocol

import "encoding/binary"

// ExtHeaderMinSize is the minimum size in bytes of a Version 3 extended
// header (the four fixed fields; no additional tail).
const ExtHeaderMinSize = 12

// ExtendedHeader is the optional Version-3 framing block that follows
// the 58-byte header. Its second field is ambiguous in the upstream
// protocol between "count of metadata entries" and "byte size of the
// metadata-entry descriptor table"; this type preserves the raw value
// and exposes both readings as named accessors rather than guessing.
type ExtendedHeader struct {
	// ExtendedHeaderSize is the total size of this extended header,
	// including these 12 bytes and any AdditionalFields tail. Always
	// >= ExtHeaderMinSize.
	ExtendedHeaderSize uint16
	// MetadataHeaderSize is the raw wire value: either an entry count
	// or a byte length depending on sender implementation. See
	// MetadataHeaderSizeRaw()/MetadataEntryCountLegacy() below.
	MetadataHeaderSize uint16
	// MetadataSize is the size in bytes of the metadata section that
	// follows the message body.
	MetadataSize uint32
	// MessageID is a sender-assigned identifier, usable for
	// request/response correlation or transfer checkpointing.
	MessageID uint32
	// AdditionalFields holds any implementation-specific tail bytes
	// beyond the 12-byte standard fields (sized by ExtendedHeaderSize).
	AdditionalFields []byte
}

// NewExtendedHeader returns a minimal (12-byte) extended header with no
// metadata and no additional fields.
func NewExtendedHeader() ExtendedHeader {
	return ExtendedHeader{ExtendedHeaderSize: ExtHeaderMinSize}
}

// HasMetadata reports whether this extended header indicates a
// metadata section follows the body.
func (e ExtendedHeader) HasMetadata() bool { return e.MetadataSize > 0 }

// MetadataSizeBytes returns the metadata section size in bytes.
func (e ExtendedHeader) MetadataSizeBytes() int { return int(e.MetadataSize) }

// MetadataHeaderSizeRaw returns the raw, unopinionated 16-bit value as
// read from the wire.
func (e ExtendedHeader) MetadataHeaderSizeRaw() uint16 { return e.MetadataHeaderSize }

// MetadataEntryCountLegacy reinterprets MetadataHeaderSize as an entry
// count.
//
// Deprecated: some sender implementations populate this field with a
// byte length instead of an entry count; see MetadataHeaderSizeRaw for
// the unopinionated value. Kept only because at least one reference
// implementation exposes this same (deprecated) reading.
func (e ExtendedHeader) MetadataEntryCountLegacy() int { return int(e.MetadataHeaderSize) }

// Size returns the total encoded size of this extended header in bytes.
func (e ExtendedHeader) Size() int { return int(e.ExtendedHeaderSize) }

// Encode serializes the extended header, including any AdditionalFields
// tail. ExtendedHeaderSize is trusted as given; callers that mutate
// AdditionalFields should keep it consistent (see SetAdditionalFields).
func (e ExtendedHeader) Encode() []byte {
	buf := make([]byte, ExtHeaderMinSize, e.ExtendedHeaderSize)
	binary.BigEndian.PutUint16(buf[0:2], e.ExtendedHeaderSize)
	binary.BigEndian.PutUint16(buf[2:4], e.MetadataHeaderSize)
	binary.BigEndian.PutUint32(buf[4:8], e.MetadataSize)
	binary.BigEndian.PutUint32(buf[8:12], e.MessageID)
	buf = append(buf, e.AdditionalFields...)
	return buf
}

// SetAdditionalFields attaches an implementation-specific tail and
// updates ExtendedHeaderSize to match.
func (e *ExtendedHeader) SetAdditionalFields(data []byte) {
	e.AdditionalFields = data
	e.ExtendedHeaderSize = uint16(ExtHeaderMinSize + len(data))
}

// DecodeExtendedHeader parses an extended header from buf.
// ExtendedHeaderSize names the length of its own tail, so unknown
// additional fields are skipped without parse failure: the caller only
// needs to supply at least ExtendedHeaderSize bytes of the frame body.
func DecodeExtendedHeader(buf []byte) (ExtendedHeader, error) {
	if len(buf) < ExtHeaderMinSize {
		return ExtendedHeader{}, errInvalidSize(ExtHeaderMinSize, uint64(len(buf)), "extended header requires %d bytes", ExtHeaderMinSize)
	}

	extSize := binary.BigEndian.Uint16(buf[0:2])
	if int(extSize) < ExtHeaderMinSize {
		return ExtendedHeader{}, errInvalidHeader("extended header size %d is less than minimum %d", extSize, ExtHeaderMinSize)
	}
	if int(extSize) > len(buf) {
		return ExtendedHeader{}, errInvalidSize(uint64(extSize), uint64(len(buf)), "extended header declares %d bytes but only %d available", extSize, len(buf))
	}

	eh := ExtendedHeader{
		ExtendedHeaderSize: extSize,
		MetadataHeaderSize: binary.BigEndian.Uint16(buf[2:4]),
		MetadataSize:       binary.BigEndian.Uint32(buf[4:8]),
		MessageID:          binary.BigEndian.Uint32(buf[8:12]),
	}
	if extra := int(extSize) - ExtHeaderMinSize; extra > 0 {
		eh.AdditionalFields = append([]byte(nil), buf[ExtHeaderMinSize:ExtHeaderMinSize+extra]...)
	}
	return eh, nil
}
