package message

import (
	"encoding/binary"
	"math"

	"openigtl/protocol"
)

// This file groups the message types whose wire body is simply a
// repeated fixed-size element: the decoder iterates while at least one
// element's worth of bytes remain and rejects any residual.

// --- POINT (136 B/elem) ---

type Point struct {
	Name     string // max 64
	Group    string // max 32
	RGBA     [4]uint8
	Position [3]float32 // mm
	Diameter float32     // mm, may be 0
	Owner    string      // max 20
}

const pointElemSize = 64 + 32 + 4 + 12 + 4 + 20

type PointList struct{ Points []Point }

func (PointList) TypeName() string { return "POINT" }

func (p PointList) EncodeBody() ([]byte, error) {
	buf := make([]byte, 0, pointElemSize*len(p.Points))
	for _, e := range p.Points {
		elem := make([]byte, pointElemSize)
		protocol.PutFixedString(elem[0:64], e.Name)
		protocol.PutFixedString(elem[64:96], e.Group)
		copy(elem[96:100], e.RGBA[:])
		i := 100
		for _, v := range e.Position {
			binary.BigEndian.PutUint32(elem[i:i+4], math.Float32bits(v))
			i += 4
		}
		binary.BigEndian.PutUint32(elem[112:116], math.Float32bits(e.Diameter))
		protocol.PutFixedString(elem[116:136], e.Owner)
		buf = append(buf, elem...)
	}
	return buf, nil
}

func DecodePointList(data []byte) (Body, error) {
	if len(data)%pointElemSize != 0 {
		return nil, protocol.ErrInvalidSize(0, uint64(len(data)%pointElemSize), "POINT residual bytes")
	}
	var list PointList
	for off := 0; off < len(data); off += pointElemSize {
		elem := data[off : off+pointElemSize]
		var rgba [4]uint8
		copy(rgba[:], elem[96:100])
		var pos [3]float32
		i := 100
		for j := range pos {
			pos[j] = math.Float32frombits(binary.BigEndian.Uint32(elem[i : i+4]))
			i += 4
		}
		list.Points = append(list.Points, Point{
			Name:     protocol.GetFixedString(elem[0:64]),
			Group:    protocol.GetFixedString(elem[64:96]),
			RGBA:     rgba,
			Position: pos,
			Diameter: math.Float32frombits(binary.BigEndian.Uint32(elem[112:116])),
			Owner:    protocol.GetFixedString(elem[116:136]),
		})
	}
	return list, nil
}

// --- QTDATA (50 B/elem): tracking element with quaternion orientation ---

type QuaternionTrack struct {
	Name           string // max 20
	InstrumentType uint8
	Position       [3]float32
	Quaternion     [4]float32 // x, y, z, w
}

const qtDataElemSize = 20 + 1 + 1 + 12 + 16

type QtData struct{ Elements []QuaternionTrack }

func (QtData) TypeName() string { return "QTDATA" }

func (q QtData) EncodeBody() ([]byte, error) {
	buf := make([]byte, 0, qtDataElemSize*len(q.Elements))
	for _, e := range q.Elements {
		elem := make([]byte, qtDataElemSize)
		protocol.PutFixedString(elem[0:20], e.Name)
		elem[20] = e.InstrumentType
		i := 22
		for _, v := range e.Position {
			binary.BigEndian.PutUint32(elem[i:i+4], math.Float32bits(v))
			i += 4
		}
		for _, v := range e.Quaternion {
			binary.BigEndian.PutUint32(elem[i:i+4], math.Float32bits(v))
			i += 4
		}
		buf = append(buf, elem...)
	}
	return buf, nil
}

func DecodeQtData(data []byte) (Body, error) {
	if len(data)%qtDataElemSize != 0 {
		return nil, protocol.ErrInvalidSize(0, uint64(len(data)%qtDataElemSize), "QTDATA residual bytes")
	}
	var qt QtData
	for off := 0; off < len(data); off += qtDataElemSize {
		elem := data[off : off+qtDataElemSize]
		var pos [3]float32
		var quat [4]float32
		i := 22
		for j := range pos {
			pos[j] = math.Float32frombits(binary.BigEndian.Uint32(elem[i : i+4]))
			i += 4
		}
		for j := range quat {
			quat[j] = math.Float32frombits(binary.BigEndian.Uint32(elem[i : i+4]))
			i += 4
		}
		qt.Elements = append(qt.Elements, QuaternionTrack{
			Name:           protocol.GetFixedString(elem[0:20]),
			InstrumentType: elem[20],
			Position:       pos,
			Quaternion:     quat,
		})
	}
	return qt, nil
}

// --- TDATA (70 B/elem): tracking element with a full 3x4 matrix ---

type TrackingElement struct {
	Name           string // max 20
	InstrumentType uint8
	Matrix         [3][4]float32
}

const tDataElemSize = 20 + 1 + 1 + 48

type TData struct{ Elements []TrackingElement }

func (TData) TypeName() string { return "TDATA" }

func (t TData) EncodeBody() ([]byte, error) {
	buf := make([]byte, 0, tDataElemSize*len(t.Elements))
	for _, e := range t.Elements {
		elem := make([]byte, tDataElemSize)
		protocol.PutFixedString(elem[0:20], e.Name)
		elem[20] = e.InstrumentType
		i := 22
		for row := 0; row < 3; row++ {
			for col := 0; col < 4; col++ {
				binary.BigEndian.PutUint32(elem[i:i+4], math.Float32bits(e.Matrix[row][col]))
				i += 4
			}
		}
		buf = append(buf, elem...)
	}
	return buf, nil
}

func DecodeTData(data []byte) (Body, error) {
	if len(data)%tDataElemSize != 0 {
		return nil, protocol.ErrInvalidSize(0, uint64(len(data)%tDataElemSize), "TDATA residual bytes")
	}
	var td TData
	for off := 0; off < len(data); off += tDataElemSize {
		elem := data[off : off+tDataElemSize]
		var m [3][4]float32
		i := 22
		for row := 0; row < 3; row++ {
			for col := 0; col < 4; col++ {
				m[row][col] = math.Float32frombits(binary.BigEndian.Uint32(elem[i : i+4]))
				i += 4
			}
		}
		td.Elements = append(td.Elements, TrackingElement{
			Name:           protocol.GetFixedString(elem[0:20]),
			InstrumentType: elem[20],
			Matrix:         m,
		})
	}
	return td, nil
}

// --- TRAJ (150 B/elem): planned trajectory between two points ---

type Trajectory struct {
	Name           string // max 64
	GroupName      string // max 32
	Type           uint8
	RGBA           [4]uint8
	EntryPoint     [3]float32
	TargetPoint    [3]float32
	Diameter       float32
	OwnerImage     string // max 20
}

const trajElemSize = 64 + 32 + 1 + 1 + 4 + 12 + 12 + 4 + 20

type Traj struct{ Trajectories []Trajectory }

func (Traj) TypeName() string { return "TRAJ" }

func (t Traj) EncodeBody() ([]byte, error) {
	buf := make([]byte, 0, trajElemSize*len(t.Trajectories))
	for _, e := range t.Trajectories {
		elem := make([]byte, trajElemSize)
		protocol.PutFixedString(elem[0:64], e.Name)
		protocol.PutFixedString(elem[64:96], e.GroupName)
		elem[96] = e.Type
		copy(elem[98:102], e.RGBA[:])
		i := 102
		for _, v := range e.EntryPoint {
			binary.BigEndian.PutUint32(elem[i:i+4], math.Float32bits(v))
			i += 4
		}
		for _, v := range e.TargetPoint {
			binary.BigEndian.PutUint32(elem[i:i+4], math.Float32bits(v))
			i += 4
		}
		binary.BigEndian.PutUint32(elem[126:130], math.Float32bits(e.Diameter))
		protocol.PutFixedString(elem[130:150], e.OwnerImage)
		buf = append(buf, elem...)
	}
	return buf, nil
}

func DecodeTraj(data []byte) (Body, error) {
	if len(data)%trajElemSize != 0 {
		return nil, protocol.ErrInvalidSize(0, uint64(len(data)%trajElemSize), "TRAJ residual bytes")
	}
	var traj Traj
	for off := 0; off < len(data); off += trajElemSize {
		elem := data[off : off+trajElemSize]
		var rgba [4]uint8
		copy(rgba[:], elem[98:102])
		var entry, target [3]float32
		i := 102
		for j := range entry {
			entry[j] = math.Float32frombits(binary.BigEndian.Uint32(elem[i : i+4]))
			i += 4
		}
		for j := range target {
			target[j] = math.Float32frombits(binary.BigEndian.Uint32(elem[i : i+4]))
			i += 4
		}
		traj.Trajectories = append(traj.Trajectories, Trajectory{
			Name:        protocol.GetFixedString(elem[0:64]),
			GroupName:   protocol.GetFixedString(elem[64:96]),
			Type:        elem[96],
			RGBA:        rgba,
			EntryPoint:  entry,
			TargetPoint: target,
			Diameter:    math.Float32frombits(binary.BigEndian.Uint32(elem[126:130])),
			OwnerImage:  protocol.GetFixedString(elem[130:150]),
		})
	}
	return traj, nil
}

// --- IMGMETA (260 B/elem): image metadata not carried by IMAGE itself ---

type ImageMeta struct {
	Name        string // max 64
	ID          string // max 20
	Modality    string // max 32
	PatientName string // max 64
	PatientID   string // max 64
	Timestamp   protocol.Timestamp
	Size        [3]uint16
	ScalarType  ScalarType
}

const imgMetaElemSize = 64 + 20 + 32 + 64 + 64 + 8 + 6 + 1 + 1

type ImgMeta struct{ Entries []ImageMeta }

func (ImgMeta) TypeName() string { return "IMGMETA" }

func (m ImgMeta) EncodeBody() ([]byte, error) {
	buf := make([]byte, 0, imgMetaElemSize*len(m.Entries))
	for _, e := range m.Entries {
		elem := make([]byte, imgMetaElemSize)
		protocol.PutFixedString(elem[0:64], e.Name)
		protocol.PutFixedString(elem[64:84], e.ID)
		protocol.PutFixedString(elem[84:116], e.Modality)
		protocol.PutFixedString(elem[116:180], e.PatientName)
		protocol.PutFixedString(elem[180:244], e.PatientID)
		binary.BigEndian.PutUint64(elem[244:252], e.Timestamp.ToU64())
		binary.BigEndian.PutUint16(elem[252:254], e.Size[0])
		binary.BigEndian.PutUint16(elem[254:256], e.Size[1])
		binary.BigEndian.PutUint16(elem[256:258], e.Size[2])
		elem[258] = byte(e.ScalarType)
		buf = append(buf, elem...)
	}
	return buf, nil
}

func DecodeImgMeta(data []byte) (Body, error) {
	if len(data)%imgMetaElemSize != 0 {
		return nil, protocol.ErrInvalidSize(0, uint64(len(data)%imgMetaElemSize), "IMGMETA residual bytes")
	}
	var im ImgMeta
	for off := 0; off < len(data); off += imgMetaElemSize {
		elem := data[off : off+imgMetaElemSize]
		im.Entries = append(im.Entries, ImageMeta{
			Name:        protocol.GetFixedString(elem[0:64]),
			ID:          protocol.GetFixedString(elem[64:84]),
			Modality:    protocol.GetFixedString(elem[84:116]),
			PatientName: protocol.GetFixedString(elem[116:180]),
			PatientID:   protocol.GetFixedString(elem[180:244]),
			Timestamp:   protocol.TimestampFromU64(binary.BigEndian.Uint64(elem[244:252])),
			Size: [3]uint16{
				binary.BigEndian.Uint16(elem[252:254]),
				binary.BigEndian.Uint16(elem[254:256]),
				binary.BigEndian.Uint16(elem[256:258]),
			},
			ScalarType: ScalarType(elem[258]),
		})
	}
	return im, nil
}

// --- LBMETA (116 B/elem): label/segmentation metadata ---

type LabelMeta struct {
	Name  string // max 64
	ID    string // max 20
	Label uint8
	RGBA  [4]uint8
	Size  [3]uint16
	Owner string // max 20
}

const lbMetaElemSize = 64 + 20 + 1 + 1 + 4 + 6 + 20

type LbMeta struct{ Labels []LabelMeta }

func (LbMeta) TypeName() string { return "LBMETA" }

func (l LbMeta) EncodeBody() ([]byte, error) {
	buf := make([]byte, 0, lbMetaElemSize*len(l.Labels))
	for _, e := range l.Labels {
		elem := make([]byte, lbMetaElemSize)
		protocol.PutFixedString(elem[0:64], e.Name)
		protocol.PutFixedString(elem[64:84], e.ID)
		elem[84] = e.Label
		copy(elem[86:90], e.RGBA[:])
		binary.BigEndian.PutUint16(elem[90:92], e.Size[0])
		binary.BigEndian.PutUint16(elem[92:94], e.Size[1])
		binary.BigEndian.PutUint16(elem[94:96], e.Size[2])
		protocol.PutFixedString(elem[96:116], e.Owner)
		buf = append(buf, elem...)
	}
	return buf, nil
}

func DecodeLbMeta(data []byte) (Body, error) {
	if len(data)%lbMetaElemSize != 0 {
		return nil, protocol.ErrInvalidSize(0, uint64(len(data)%lbMetaElemSize), "LBMETA residual bytes")
	}
	var lb LbMeta
	for off := 0; off < len(data); off += lbMetaElemSize {
		elem := data[off : off+lbMetaElemSize]
		var rgba [4]uint8
		copy(rgba[:], elem[86:90])
		lb.Labels = append(lb.Labels, LabelMeta{
			Name:  protocol.GetFixedString(elem[0:64]),
			ID:    protocol.GetFixedString(elem[64:84]),
			Label: elem[84],
			RGBA:  rgba,
			Size: [3]uint16{
				binary.BigEndian.Uint16(elem[90:92]),
				binary.BigEndian.Uint16(elem[92:94]),
				binary.BigEndian.Uint16(elem[94:96]),
			},
			Owner: protocol.GetFixedString(elem[96:116]),
		})
	}
	return lb, nil
}
