package message

import (
	"testing"

	"github.com/go-test/deep"
)

func TestPointListRoundTrip(t *testing.T) {
	pl := PointList{Points: []Point{
		{Name: "Nasion", Group: "Fiducials", RGBA: [4]uint8{255, 0, 0, 255}, Position: [3]float32{0, 85, -30}, Diameter: 5, Owner: "CTImage"},
		{Name: "LeftEar", Group: "Fiducials", RGBA: [4]uint8{0, 255, 0, 255}, Position: [3]float32{-75, 0, -20}, Diameter: 5, Owner: "CTImage"},
	}}
	encoded, err := pl.EncodeBody()
	if err != nil {
		t.Fatalf("EncodeBody failed: %v", err)
	}
	if len(encoded) != pointElemSize*2 {
		t.Fatalf("encoded length = %d, want %d", len(encoded), pointElemSize*2)
	}
	decodedBody, err := DecodePointList(encoded)
	if err != nil {
		t.Fatalf("DecodePointList failed: %v", err)
	}
	if diff := deep.Equal(decodedBody.(PointList), pl); diff != nil {
		t.Error(diff)
	}
}

func TestPointListRejectsResidualBytes(t *testing.T) {
	if _, err := DecodePointList(make([]byte, pointElemSize+1)); err == nil {
		t.Fatal("expected rejection of residual bytes")
	}
}

func TestPointListEmptyIsValid(t *testing.T) {
	decodedBody, err := DecodePointList(nil)
	if err != nil {
		t.Fatalf("DecodePointList(nil) failed: %v", err)
	}
	if len(decodedBody.(PointList).Points) != 0 {
		t.Error("expected zero points")
	}
}

func TestTDataRoundTrip(t *testing.T) {
	td := TData{Elements: []TrackingElement{
		{Name: "Probe1", InstrumentType: 1, Matrix: [3][4]float32{{1, 0, 0, 10}, {0, 1, 0, 20}, {0, 0, 1, 30}}},
	}}
	encoded, err := td.EncodeBody()
	if err != nil {
		t.Fatalf("EncodeBody failed: %v", err)
	}
	decodedBody, err := DecodeTData(encoded)
	if err != nil {
		t.Fatalf("DecodeTData failed: %v", err)
	}
	if diff := deep.Equal(decodedBody.(TData), td); diff != nil {
		t.Error(diff)
	}
}

func TestQtDataRoundTrip(t *testing.T) {
	qt := QtData{Elements: []QuaternionTrack{
		{Name: "Needle", InstrumentType: 2, Position: [3]float32{1, 2, 3}, Quaternion: [4]float32{0, 0, 0, 1}},
	}}
	encoded, err := qt.EncodeBody()
	if err != nil {
		t.Fatalf("EncodeBody failed: %v", err)
	}
	decodedBody, err := DecodeQtData(encoded)
	if err != nil {
		t.Fatalf("DecodeQtData failed: %v", err)
	}
	if diff := deep.Equal(decodedBody.(QtData), qt); diff != nil {
		t.Error(diff)
	}
}

func TestLbMetaRoundTrip(t *testing.T) {
	lb := LbMeta{Labels: []LabelMeta{
		{Name: "Liver", ID: "L1", Label: 3, RGBA: [4]uint8{200, 100, 50, 255}, Size: [3]uint16{256, 256, 128}, Owner: "CTImage"},
	}}
	encoded, err := lb.EncodeBody()
	if err != nil {
		t.Fatalf("EncodeBody failed: %v", err)
	}
	if len(encoded) != lbMetaElemSize {
		t.Fatalf("encoded length = %d, want %d", len(encoded), lbMetaElemSize)
	}
	decodedBody, err := DecodeLbMeta(encoded)
	if err != nil {
		t.Fatalf("DecodeLbMeta failed: %v", err)
	}
	if diff := deep.Equal(decodedBody.(LbMeta), lb); diff != nil {
		t.Error(diff)
	}
}
