package message

import (
	"encoding/binary"
	"math"

	"openigtl/protocol"
)

// Position carries a 3D position and an orientation quaternion.
type Position struct {
	X, Y, Z          float32 // position in mm
	QX, QY, QZ, QW   float32 // orientation quaternion
}

const positionBodySize = 28

func (Position) TypeName() string { return "POSITION" }

func (p Position) EncodeBody() ([]byte, error) {
	buf := make([]byte, positionBodySize)
	vals := []float32{p.X, p.Y, p.Z, p.QX, p.QY, p.QZ, p.QW}
	for i, v := range vals {
		binary.BigEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return buf, nil
}

func DecodePosition(data []byte) (Body, error) {
	if len(data) != positionBodySize {
		return nil, protocol.ErrInvalidSize(positionBodySize, uint64(len(data)), "POSITION body")
	}
	read := func(i int) float32 {
		return math.Float32frombits(binary.BigEndian.Uint32(data[i*4 : i*4+4]))
	}
	return Position{
		X: read(0), Y: read(1), Z: read(2),
		QX: read(3), QY: read(4), QZ: read(5), QW: read(6),
	}, nil
}
