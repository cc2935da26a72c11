package message

import (
	"encoding/binary"
	"fmt"

	"openigtl/protocol"
)

// Envelope wraps a concrete body with the header, optional extended
// header, and optional metadata section that travel with it on the
// wire. It generalizes mini-rpc's flat header-then-body frame
// (protocol.Header + raw bytes) to OpenIGTLink's three-part body.
type Envelope[T Body] struct {
	Header         protocol.Header
	ExtendedHeader *protocol.ExtendedHeader // nil when Header.Version < 3
	Content        T
	Metadata       map[string]string
}

// NewEnvelope builds an envelope around content, stamping the header
// with the current time and the body's type name. Callers that need a
// v3 extended header or metadata set them on the returned value before
// calling Encode.
func NewEnvelope[T Body](content T, deviceName string) *Envelope[T] {
	return &Envelope[T]{
		Header: protocol.Header{
			Version:    2,
			TypeName:   content.TypeName(),
			DeviceName: deviceName,
			Timestamp:  protocol.Now(),
		},
		Content: content,
	}
}

// encodeMetadata serializes the metadata map as a sequence of
// (u16 key-len, u32 value-len, key, value) entries. A nil or empty map
// encodes to zero bytes.
func encodeMetadata(m map[string]string) []byte {
	if len(m) == 0 {
		return nil
	}
	var buf []byte
	for k, v := range m {
		kb, vb := []byte(k), []byte(v)
		head := make([]byte, 6)
		binary.BigEndian.PutUint16(head[0:2], uint16(len(kb)))
		binary.BigEndian.PutUint32(head[2:6], uint32(len(vb)))
		buf = append(buf, head...)
		buf = append(buf, kb...)
		buf = append(buf, vb...)
	}
	return buf
}

// decodeMetadata parses the metadata section produced by
// encodeMetadata. An empty slice decodes to a nil map.
func decodeMetadata(data []byte) (map[string]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	m := make(map[string]string)
	for len(data) > 0 {
		if len(data) < 6 {
			return nil, protocol.ErrInvalidSize(6, uint64(len(data)), "metadata entry header truncated")
		}
		klen := binary.BigEndian.Uint16(data[0:2])
		vlen := binary.BigEndian.Uint32(data[2:6])
		data = data[6:]
		need := uint64(klen) + uint64(vlen)
		if uint64(len(data)) < need {
			return nil, protocol.ErrInvalidSize(need, uint64(len(data)), "metadata entry body truncated")
		}
		key := string(data[:klen])
		val := string(data[klen : uint64(klen)+uint64(vlen)])
		data = data[need:]
		m[key] = val
	}
	return m, nil
}

// Encode serializes the full frame: header, optional extended header,
// body, optional metadata. header.BodySize and header.CRC are computed
// here and written back into e.Header, mirroring mini-rpc's Encode
// (protocol.Encode) taking ownership of header bookkeeping rather than
// trusting a caller-supplied length.
func (e *Envelope[T]) Encode() ([]byte, error) {
	bodyBytes, err := e.Content.EncodeBody()
	if err != nil {
		return nil, fmt.Errorf("encode %s body: %w", e.Content.TypeName(), err)
	}
	metaBytes := encodeMetadata(e.Metadata)

	var extBytes []byte
	if e.ExtendedHeader != nil {
		eh := *e.ExtendedHeader
		eh.MetadataSize = uint32(len(metaBytes))
		extBytes = eh.Encode()
		e.ExtendedHeader = &eh
	}

	e.Header.BodySize = uint64(len(extBytes) + len(bodyBytes) + len(metaBytes))
	e.Header.TypeName = e.Content.TypeName()

	tail := make([]byte, 0, e.Header.BodySize)
	tail = append(tail, extBytes...)
	tail = append(tail, bodyBytes...)
	tail = append(tail, metaBytes...)
	e.Header.CRC = protocol.CRC64(tail)

	head, err := e.Header.Encode()
	if err != nil {
		return nil, err
	}
	return append(head, tail...), nil
}

// DecodeEnvelope parses a complete frame already split into header and
// tail bytes (everything after the 58-byte header), verifying CRC when
// verifyCRC is true and dispatching the body through decode.
func DecodeEnvelope[T Body](header protocol.Header, tail []byte, decode Decoder, verifyCRC bool) (*Envelope[T], error) {
	if verifyCRC && !protocol.VerifyCRC64(tail, header.CRC) {
		return nil, protocol.ErrCrcMismatch(header.CRC, protocol.CRC64(tail))
	}

	rest := tail
	var ext *protocol.ExtendedHeader
	if header.Version >= 3 {
		eh, err := protocol.DecodeExtendedHeader(rest)
		if err != nil {
			return nil, err
		}
		ext = &eh
		rest = rest[eh.Size():]
	}

	var metaBytes []byte
	if ext != nil && ext.HasMetadata() {
		metaSize := ext.MetadataSizeBytes()
		if len(rest) < metaSize {
			return nil, protocol.ErrInvalidSize(uint64(metaSize), uint64(len(rest)), "metadata section truncated")
		}
		bodyEnd := len(rest) - metaSize
		metaBytes = rest[bodyEnd:]
		rest = rest[:bodyEnd]
	}

	body, err := decode(rest)
	if err != nil {
		return nil, fmt.Errorf("decode %s body: %w", header.TypeName, err)
	}
	typed, ok := body.(T)
	if !ok {
		return nil, protocol.ErrUnknownMessageType(header.TypeName)
	}

	meta, err := decodeMetadata(metaBytes)
	if err != nil {
		return nil, err
	}

	return &Envelope[T]{Header: header, ExtendedHeader: ext, Content: typed, Metadata: meta}, nil
}
