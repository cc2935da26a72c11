package message

import "openigtl/protocol"

// ColorTable carries a lookup table mapping a label/index scalar type
// to an RGBA color, used alongside LABEL/IMAGE segmentation data.
// IndexType is restricted to ScalarUint8 (byte value 3) or ScalarUint16
// (byte value 5), matching the reference implementation's IndexType
// enum; any other scalar type is not a valid color table index.
type ColorTable struct {
	IndexType ScalarType
	Colors    [][4]byte
}

func (ColorTable) TypeName() string { return "COLORTABLE" }

func validColorTableIndexType(t ScalarType) bool {
	return t == ScalarUint8 || t == ScalarUint16
}

func (c ColorTable) EncodeBody() ([]byte, error) {
	if !validColorTableIndexType(c.IndexType) {
		return nil, protocol.ErrInvalidSize(0, uint64(c.IndexType), "COLORTABLE unknown index type")
	}
	buf := make([]byte, 2+4*len(c.Colors))
	buf[0] = byte(c.IndexType)
	buf[1] = 0 // reserved, always zero on the wire
	for i, rgba := range c.Colors {
		copy(buf[2+4*i:6+4*i], rgba[:])
	}
	return buf, nil
}

func DecodeColorTable(data []byte) (Body, error) {
	if len(data) < 2 {
		return nil, protocol.ErrInvalidSize(2, uint64(len(data)), "COLORTABLE header")
	}
	indexType := ScalarType(data[0])
	if !validColorTableIndexType(indexType) {
		return nil, protocol.ErrInvalidSize(0, uint64(indexType), "COLORTABLE unknown index type")
	}
	// data[1] is reserved and ignored.
	table := data[2:]
	if len(table)%4 != 0 {
		return nil, protocol.ErrInvalidSize(0, uint64(len(table)%4), "COLORTABLE table size not a multiple of entry size")
	}
	colors := make([][4]byte, len(table)/4)
	for i := range colors {
		copy(colors[i][:], table[4*i:4*i+4])
	}
	return ColorTable{IndexType: indexType, Colors: colors}, nil
}
