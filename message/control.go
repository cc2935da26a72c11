package message

import (
	"encoding/binary"

	"openigtl/protocol"
)

// EmptyControl is a query or stop-stream message with no body: every
// GET_* and STP_* type name shares this shape, so rather than
// generating twenty near-identical structs, the wire type name lives
// in the Name field.
type EmptyControl struct{ Name string }

func (e EmptyControl) TypeName() string { return e.Name }

func (EmptyControl) EncodeBody() ([]byte, error) { return nil, nil }

// decodeEmptyControl builds a Decoder bound to a fixed type name,
// rejecting any non-empty body.
func decodeEmptyControl(name string) Decoder {
	return func(data []byte) (Body, error) {
		if len(data) != 0 {
			return nil, protocol.ErrInvalidSize(0, uint64(len(data)), "%s expects an empty body", name)
		}
		return EmptyControl{Name: name}, nil
	}
}

// Query message type names (GET_*).
const (
	TypeGetCapability = "GET_CAPABIL"
	TypeGetStatus     = "GET_STATUS"
	TypeGetTransform  = "GET_TRANSFOR"
	TypeGetImage      = "GET_IMAGE"
	TypeGetTData      = "GET_TDATA"
	TypeGetPoint      = "GET_POINT"
	TypeGetImgMeta    = "GET_IMGMETA"
	TypeGetLbMeta     = "GET_LBMETA"
)

// Stop-stream message type names (STP_*).
const (
	TypeStopTData     = "STP_TDATA"
	TypeStopImage     = "STP_IMAGE"
	TypeStopTransform = "STP_TRANSFOR"
	TypeStopPosition  = "STP_POSITION"
	TypeStopQtData    = "STP_QTDATA"
	TypeStopNdArray   = "STP_NDARRAY"
)

// RTSStatus is the 2-byte status reply to STP_TDATA/STT_TDATA: 0
// means the request failed, 1 means it succeeded.
type RTSStatus struct {
	Name   string
	Status uint16
}

func (r RTSStatus) TypeName() string { return r.Name }

func (r RTSStatus) EncodeBody() ([]byte, error) {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, r.Status)
	return buf, nil
}

func decodeRTSStatus(name string) Decoder {
	return func(data []byte) (Body, error) {
		if len(data) != 2 {
			return nil, protocol.ErrInvalidSize(2, uint64(len(data)), "%s body", name)
		}
		return RTSStatus{Name: name, Status: binary.BigEndian.Uint16(data)}, nil
	}
}

const TypeRTSTData = "RTS_TDATA"

// RTSResponse wraps a STATUS-formatted body under an RTS_* type name
// (e.g. RTS_TRANSFOR, RTS_IMAGE): most RTS_* replies reuse STATUS's
// wire layout verbatim, only the header's type name differs.
type RTSResponse struct {
	Name   string
	Status Status
}

func (r RTSResponse) TypeName() string { return r.Name }

func (r RTSResponse) EncodeBody() ([]byte, error) { return r.Status.EncodeBody() }

func decodeRTSResponse(name string) Decoder {
	return func(data []byte) (Body, error) {
		body, err := DecodeStatus(data)
		if err != nil {
			return nil, err
		}
		return RTSResponse{Name: name, Status: body.(Status)}, nil
	}
}

const (
	TypeRTSTransform = "RTS_TRANSFOR"
	TypeRTSImage     = "RTS_IMAGE"
	TypeRTSPoint     = "RTS_POINT"
)

const (
	sttTDataCoordWidth = 32
	sttTDataBodySize   = 4 + sttTDataCoordWidth
)

// StartTData requests a TDATA stream at the given update resolution.
type StartTData struct {
	ResolutionMillis uint32
	CoordinateName   string // max 32
}

const TypeSttTData = "STT_TDATA"

func (StartTData) TypeName() string { return TypeSttTData }

func (s StartTData) EncodeBody() ([]byte, error) {
	buf := make([]byte, sttTDataBodySize)
	binary.BigEndian.PutUint32(buf[0:4], s.ResolutionMillis)
	protocol.PutFixedString(buf[4:4+sttTDataCoordWidth], s.CoordinateName)
	return buf, nil
}

func DecodeStartTData(data []byte) (Body, error) {
	if len(data) != sttTDataBodySize {
		return nil, protocol.ErrInvalidSize(sttTDataBodySize, uint64(len(data)), "STT_TDATA body")
	}
	return StartTData{
		ResolutionMillis: binary.BigEndian.Uint32(data[0:4]),
		CoordinateName:   protocol.GetFixedString(data[4 : 4+sttTDataCoordWidth]),
	}, nil
}
