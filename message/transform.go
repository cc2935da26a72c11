package message

import (
	"encoding/binary"
	"math"

	"openigtl/protocol"
)

// Transform carries the upper 3x4 block of a 4x4 homogeneous
// transformation matrix; the implicit bottom row is always [0,0,0,1].
type Transform struct {
	// Matrix is row-major: Matrix[row][col], row in 0..3, col in 0..3.
	// Row 3 is not transmitted and is ignored on encode.
	Matrix [4][4]float32
}

const transformBodySize = 48

func NewIdentityTransform() Transform {
	var t Transform
	for i := 0; i < 4; i++ {
		t.Matrix[i][i] = 1
	}
	return t
}

func (Transform) TypeName() string { return "TRANSFORM" }

// EncodeBody writes the 3x4 block in column-major order:
// R11,R21,R31,R12,R22,R32,R13,R23,R33,TX,TY,TZ.
func (t Transform) EncodeBody() ([]byte, error) {
	buf := make([]byte, transformBodySize)
	i := 0
	for col := 0; col < 4; col++ {
		for row := 0; row < 3; row++ {
			binary.BigEndian.PutUint32(buf[i:i+4], math.Float32bits(t.Matrix[row][col]))
			i += 4
		}
	}
	return buf, nil
}

func DecodeTransform(data []byte) (Body, error) {
	if len(data) != transformBodySize {
		return nil, protocol.ErrInvalidSize(transformBodySize, uint64(len(data)), "TRANSFORM body")
	}
	var t Transform
	i := 0
	for col := 0; col < 4; col++ {
		for row := 0; row < 3; row++ {
			t.Matrix[row][col] = math.Float32frombits(binary.BigEndian.Uint32(data[i : i+4]))
			i += 4
		}
	}
	t.Matrix[3] = [4]float32{0, 0, 0, 1}
	return t, nil
}
