package message

import (
	"encoding/binary"
	"math"

	"openigtl/protocol"
)

// AttributeType distinguishes per-point from per-cell attribute data.
type AttributeType uint8

const (
	AttributePoint AttributeType = 0
	AttributeCell  AttributeType = 1
)

// PolyAttribute is a named, per-point or per-cell scalar/vector
// attribute attached to a PolyData mesh (e.g. normals, curvature).
type PolyAttribute struct {
	Type          AttributeType
	NumComponents uint8
	Name          string // max 64
	Data          []float32
}

// PolyData carries a 3D polygon mesh: points plus four index lists
// (vertices, lines, polygons, triangle strips) and optional attributes.
type PolyData struct {
	Points         [][3]float32
	Vertices       []uint32
	Lines          []uint32
	Polygons       []uint32
	TriangleStrips []uint32
	Attributes     []PolyAttribute
}

func (PolyData) TypeName() string { return "POLYDATA" }

func putU32List(buf []byte, list []uint32) []byte {
	head := make([]byte, 4)
	binary.BigEndian.PutUint32(head, uint32(len(list)))
	buf = append(buf, head...)
	for _, v := range list {
		vb := make([]byte, 4)
		binary.BigEndian.PutUint32(vb, v)
		buf = append(buf, vb...)
	}
	return buf
}

func (p PolyData) EncodeBody() ([]byte, error) {
	var buf []byte

	head := make([]byte, 4)
	binary.BigEndian.PutUint32(head, uint32(len(p.Points)))
	buf = append(buf, head...)
	for _, pt := range p.Points {
		for _, v := range pt {
			fb := make([]byte, 4)
			binary.BigEndian.PutUint32(fb, math.Float32bits(v))
			buf = append(buf, fb...)
		}
	}

	buf = putU32List(buf, p.Vertices)
	buf = putU32List(buf, p.Lines)
	buf = putU32List(buf, p.Polygons)
	buf = putU32List(buf, p.TriangleStrips)

	countBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(countBuf, uint32(len(p.Attributes)))
	buf = append(buf, countBuf...)
	for _, a := range p.Attributes {
		elem := make([]byte, 1+1+64+4)
		elem[0] = byte(a.Type)
		elem[1] = a.NumComponents
		protocol.PutFixedString(elem[2:66], a.Name)
		binary.BigEndian.PutUint32(elem[66:70], uint32(len(a.Data)))
		buf = append(buf, elem...)
		for _, v := range a.Data {
			fb := make([]byte, 4)
			binary.BigEndian.PutUint32(fb, math.Float32bits(v))
			buf = append(buf, fb...)
		}
	}
	return buf, nil
}

func getU32List(data []byte) ([]uint32, []byte, error) {
	if len(data) < 4 {
		return nil, nil, protocol.ErrInvalidSize(4, uint64(len(data)), "POLYDATA list count")
	}
	n := binary.BigEndian.Uint32(data[0:4])
	data = data[4:]
	if uint64(len(data)) < uint64(n)*4 {
		return nil, nil, protocol.ErrInvalidSize(uint64(n)*4, uint64(len(data)), "POLYDATA list body")
	}
	list := make([]uint32, n)
	for i := range list {
		list[i] = binary.BigEndian.Uint32(data[i*4 : i*4+4])
	}
	return list, data[n*4:], nil
}

func DecodePolyData(data []byte) (Body, error) {
	if len(data) < 4 {
		return nil, protocol.ErrInvalidSize(4, uint64(len(data)), "POLYDATA point count")
	}
	numPoints := binary.BigEndian.Uint32(data[0:4])
	data = data[4:]
	if uint64(len(data)) < uint64(numPoints)*12 {
		return nil, protocol.ErrInvalidSize(uint64(numPoints)*12, uint64(len(data)), "POLYDATA points")
	}
	points := make([][3]float32, numPoints)
	for i := range points {
		for j := 0; j < 3; j++ {
			off := i*12 + j*4
			points[i][j] = math.Float32frombits(binary.BigEndian.Uint32(data[off : off+4]))
		}
	}
	data = data[numPoints*12:]

	var pd PolyData
	pd.Points = points
	var err error
	if pd.Vertices, data, err = getU32List(data); err != nil {
		return nil, err
	}
	if pd.Lines, data, err = getU32List(data); err != nil {
		return nil, err
	}
	if pd.Polygons, data, err = getU32List(data); err != nil {
		return nil, err
	}
	if pd.TriangleStrips, data, err = getU32List(data); err != nil {
		return nil, err
	}

	if len(data) < 4 {
		return nil, protocol.ErrInvalidSize(4, uint64(len(data)), "POLYDATA attribute count")
	}
	numAttrs := binary.BigEndian.Uint32(data[0:4])
	data = data[4:]
	for i := uint32(0); i < numAttrs; i++ {
		if len(data) < 70 {
			return nil, protocol.ErrInvalidSize(70, uint64(len(data)), "POLYDATA attribute header")
		}
		attrType := AttributeType(data[0])
		numComponents := data[1]
		name := protocol.GetFixedString(data[2:66])
		dataLen := binary.BigEndian.Uint32(data[66:70])
		data = data[70:]
		if uint64(len(data)) < uint64(dataLen)*4 {
			return nil, protocol.ErrInvalidSize(uint64(dataLen)*4, uint64(len(data)), "POLYDATA attribute data")
		}
		values := make([]float32, dataLen)
		for j := range values {
			values[j] = math.Float32frombits(binary.BigEndian.Uint32(data[j*4 : j*4+4]))
		}
		data = data[dataLen*4:]
		pd.Attributes = append(pd.Attributes, PolyAttribute{
			Type: attrType, NumComponents: numComponents, Name: name, Data: values,
		})
	}

	if len(data) != 0 {
		return nil, protocol.ErrInvalidSize(0, uint64(len(data)), "POLYDATA residual bytes")
	}
	return pd, nil
}
