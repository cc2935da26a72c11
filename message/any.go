package message

import "openigtl/protocol"

// Unknown wraps the raw body bytes of a message whose type name this
// repository does not recognize. It is never an error: an unrecognized
// type name is a normal occurrence on a protocol with vendor
// extensions, not a protocol violation.
type Unknown struct {
	Name string
	Body []byte
}

func (u Unknown) TypeName() string { return u.Name }

func (u Unknown) EncodeBody() ([]byte, error) { return u.Body, nil }

// registry maps every recognized wire type name to its body decoder.
// A closed map beats mini-rpc's reflection-based service lookup
// (server/service.go) here because OpenIGTLink's type catalog is
// fixed by the protocol, not discovered at runtime.
var registry = map[string]Decoder{
	"TRANSFORM":  DecodeTransform,
	"POSITION":   DecodePosition,
	"IMAGE":      DecodeImage,
	"STATUS":     DecodeStatus,
	"CAPABILITY": DecodeCapability,
	"STRING":     DecodeString,
	"SENSOR":     DecodeSensor,
	"POINT":      DecodePointList,
	"TRAJ":       DecodeTraj,
	"QTDATA":     DecodeQtData,
	"TDATA":      DecodeTData,
	"NDARRAY":    DecodeNDArray,
	"BIND":       DecodeBind,
	"COLORTABLE": DecodeColorTable,
	"IMGMETA":    DecodeImgMeta,
	"LBMETA":     DecodeLbMeta,
	"POLYDATA":   DecodePolyData,
	"VIDEO":      DecodeVideo,
	"VIDEOMETA":  DecodeVideoMeta,
	"COMMAND":    DecodeCommand,

	TypeGetCapability: decodeEmptyControl(TypeGetCapability),
	TypeGetStatus:     decodeEmptyControl(TypeGetStatus),
	TypeGetTransform:  decodeEmptyControl(TypeGetTransform),
	TypeGetImage:      decodeEmptyControl(TypeGetImage),
	TypeGetTData:      decodeEmptyControl(TypeGetTData),
	TypeGetPoint:      decodeEmptyControl(TypeGetPoint),
	TypeGetImgMeta:    decodeEmptyControl(TypeGetImgMeta),
	TypeGetLbMeta:     decodeEmptyControl(TypeGetLbMeta),

	TypeStopTData:     decodeEmptyControl(TypeStopTData),
	TypeStopImage:     decodeEmptyControl(TypeStopImage),
	TypeStopTransform: decodeEmptyControl(TypeStopTransform),
	TypeStopPosition:  decodeEmptyControl(TypeStopPosition),
	TypeStopQtData:    decodeEmptyControl(TypeStopQtData),
	TypeStopNdArray:   decodeEmptyControl(TypeStopNdArray),

	TypeSttTData: DecodeStartTData,

	TypeRTSTData: decodeRTSStatus(TypeRTSTData),

	TypeRTSTransform: decodeRTSResponse(TypeRTSTransform),
	TypeRTSImage:     decodeRTSResponse(TypeRTSImage),
	TypeRTSPoint:     decodeRTSResponse(TypeRTSPoint),
}

// AnyMessage is the dynamically-dispatched decode result: a concrete
// Body behind an interface, paired with the header and metadata that
// framed it.
type AnyMessage struct {
	Header         protocol.Header
	ExtendedHeader *protocol.ExtendedHeader
	Content        Body
	Metadata       map[string]string
}

func (a *AnyMessage) MessageType() string { return a.Header.TypeName }

func (a *AnyMessage) DeviceName() string { return a.Header.DeviceName }

// As attempts to downcast Content to T, returning ok=false if the
// decoded message is a different concrete type (including Unknown).
func As[T Body](a *AnyMessage) (T, bool) {
	t, ok := a.Content.(T)
	return t, ok
}

// Decode dispatches on header.TypeName: for a recognized name it
// invokes that type's body decoder on the bytes between the extended
// header (if any) and the metadata section (if any); for an
// unrecognized name it returns an Unknown content, never an error. CRC
// verification, when requested, happens once here so typed decoders
// never redundantly re-check it.
func Decode(header protocol.Header, tail []byte, verifyCRC bool) (*AnyMessage, error) {
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

	decode, known := registry[header.TypeName]
	var content Body
	if !known {
		content = Unknown{Name: header.TypeName, Body: append([]byte(nil), rest...)}
	} else {
		body, err := decode(rest)
		if err != nil {
			return nil, err
		}
		content = body
	}

	meta, err := decodeMetadata(metaBytes)
	if err != nil {
		return nil, err
	}

	return &AnyMessage{Header: header, ExtendedHeader: ext, Content: content, Metadata: meta}, nil
}
