package message

import (
	"encoding/binary"
	"math"

	"openigtl/protocol"
)

// ScalarType enumerates IMAGE's per-pixel numeric representation.
type ScalarType uint8

const (
	ScalarInt8    ScalarType = 2
	ScalarUint8   ScalarType = 3
	ScalarInt16   ScalarType = 4
	ScalarUint16  ScalarType = 5
	ScalarInt32   ScalarType = 6
	ScalarUint32  ScalarType = 7
	ScalarFloat32 ScalarType = 10
	ScalarFloat64 ScalarType = 11
)

func scalarTypeSize(t ScalarType) (int, bool) {
	switch t {
	case ScalarInt8, ScalarUint8:
		return 1, true
	case ScalarInt16, ScalarUint16:
		return 2, true
	case ScalarInt32, ScalarUint32, ScalarFloat32:
		return 4, true
	case ScalarFloat64:
		return 8, true
	default:
		return 0, false
	}
}

// Endian identifies the byte order the sender used for the pixel data
// itself (the header and matrix are always big-endian regardless).
type Endian uint8

const (
	EndianBig    Endian = 1
	EndianLittle Endian = 2
)

// Coordinate identifies the anatomical coordinate convention of the
// transform matrix.
type Coordinate uint8

const (
	CoordinateRAS Coordinate = 1
	CoordinateLPS Coordinate = 2
)

const imageHeaderSize = 60

// Image carries a (up to) 3D pixel volume with its placement matrix.
type Image struct {
	Components uint8
	ScalarType ScalarType
	Endian     Endian
	Coordinate Coordinate
	Size       [3]uint16
	// Matrix is the 3x4 placement matrix, row-major (Matrix[row][col]).
	Matrix [3][4]float32
	Pixels []byte
}

func (Image) TypeName() string { return "IMAGE" }

func (img Image) EncodeBody() ([]byte, error) {
	scalarSize, ok := scalarTypeSize(img.ScalarType)
	if !ok {
		return nil, protocol.ErrInvalidSize(0, uint64(img.ScalarType), "IMAGE unknown scalar type")
	}
	wantPixels := int(img.Size[0]) * int(img.Size[1]) * int(img.Size[2]) * int(img.Components) * scalarSize
	if len(img.Pixels) != wantPixels {
		return nil, protocol.ErrInvalidSize(uint64(wantPixels), uint64(len(img.Pixels)), "IMAGE pixel byte count")
	}

	buf := make([]byte, imageHeaderSize+len(img.Pixels))
	binary.BigEndian.PutUint16(buf[0:2], 1) // version
	buf[2] = img.Components
	buf[3] = byte(img.ScalarType)
	buf[4] = byte(img.Endian)
	buf[5] = byte(img.Coordinate)
	binary.BigEndian.PutUint16(buf[6:8], img.Size[0])
	binary.BigEndian.PutUint16(buf[8:10], img.Size[1])
	binary.BigEndian.PutUint16(buf[10:12], img.Size[2])

	i := 12
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			binary.BigEndian.PutUint32(buf[i:i+4], math.Float32bits(img.Matrix[row][col]))
			i += 4
		}
	}
	copy(buf[imageHeaderSize:], img.Pixels)
	return buf, nil
}

func DecodeImage(data []byte) (Body, error) {
	if len(data) < imageHeaderSize {
		return nil, protocol.ErrInvalidSize(imageHeaderSize, uint64(len(data)), "IMAGE header")
	}
	scalarType := ScalarType(data[3])
	scalarSize, ok := scalarTypeSize(scalarType)
	if !ok {
		return nil, protocol.ErrInvalidSize(0, uint64(scalarType), "IMAGE unknown scalar type")
	}

	img := Image{
		Components: data[2],
		ScalarType: scalarType,
		Endian:     Endian(data[4]),
		Coordinate: Coordinate(data[5]),
		Size: [3]uint16{
			binary.BigEndian.Uint16(data[6:8]),
			binary.BigEndian.Uint16(data[8:10]),
			binary.BigEndian.Uint16(data[10:12]),
		},
	}

	i := 12
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			img.Matrix[row][col] = math.Float32frombits(binary.BigEndian.Uint32(data[i : i+4]))
			i += 4
		}
	}

	wantPixels := int(img.Size[0]) * int(img.Size[1]) * int(img.Size[2]) * int(img.Components) * scalarSize
	pixels := data[imageHeaderSize:]
	if len(pixels) != wantPixels {
		return nil, protocol.ErrInvalidSize(uint64(wantPixels), uint64(len(pixels)), "IMAGE pixel byte count")
	}
	img.Pixels = append([]byte(nil), pixels...)
	return img, nil
}
