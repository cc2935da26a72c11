package message

import (
	"encoding/binary"

	"openigtl/protocol"
)

const ndArrayMaxDims = 255

// NDArray carries an n-dimensional numeric array of a single scalar
// type, dimension sizes first, followed by the flattened raw data.
type NDArray struct {
	ScalarType ScalarType
	Sizes      []uint16
	Data       []byte
}

func (NDArray) TypeName() string { return "NDARRAY" }

func (n NDArray) EncodeBody() ([]byte, error) {
	if len(n.Sizes) == 0 || len(n.Sizes) > ndArrayMaxDims {
		return nil, protocol.ErrInvalidSize(1, uint64(len(n.Sizes)), "NDARRAY dim count")
	}
	scalarSize, ok := scalarTypeSize(n.ScalarType)
	if !ok {
		return nil, protocol.ErrInvalidSize(0, uint64(n.ScalarType), "NDARRAY unknown scalar type")
	}
	want := scalarSize
	for _, s := range n.Sizes {
		want *= int(s)
	}
	if len(n.Data) != want {
		return nil, protocol.ErrInvalidSize(uint64(want), uint64(len(n.Data)), "NDARRAY data size")
	}

	buf := make([]byte, 2+2*len(n.Sizes)+len(n.Data))
	buf[0] = byte(n.ScalarType)
	buf[1] = byte(len(n.Sizes))
	for i, s := range n.Sizes {
		binary.BigEndian.PutUint16(buf[2+2*i:4+2*i], s)
	}
	copy(buf[2+2*len(n.Sizes):], n.Data)
	return buf, nil
}

func DecodeNDArray(data []byte) (Body, error) {
	if len(data) < 2 {
		return nil, protocol.ErrInvalidSize(2, uint64(len(data)), "NDARRAY header")
	}
	scalarType := ScalarType(data[0])
	scalarSize, ok := scalarTypeSize(scalarType)
	if !ok {
		return nil, protocol.ErrInvalidSize(0, uint64(scalarType), "NDARRAY unknown scalar type")
	}
	dims := int(data[1])
	if dims == 0 {
		return nil, protocol.ErrInvalidSize(1, 0, "NDARRAY dim count")
	}
	headerEnd := 2 + 2*dims
	if len(data) < headerEnd {
		return nil, protocol.ErrInvalidSize(uint64(headerEnd), uint64(len(data)), "NDARRAY dimension table")
	}
	sizes := make([]uint16, dims)
	want := scalarSize
	for i := range sizes {
		sizes[i] = binary.BigEndian.Uint16(data[2+2*i : 4+2*i])
		want *= int(sizes[i])
	}
	payload := data[headerEnd:]
	if len(payload) != want {
		return nil, protocol.ErrInvalidSize(uint64(want), uint64(len(payload)), "NDARRAY data size")
	}
	return NDArray{ScalarType: scalarType, Sizes: sizes, Data: append([]byte(nil), payload...)}, nil
}
