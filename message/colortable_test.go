package message

import "testing"

func TestColorTableRoundTrip(t *testing.T) {
	ct := ColorTable{IndexType: ScalarUint8, Colors: make([][4]byte, 256)}
	ct.Colors[0] = [4]byte{255, 0, 0, 255}
	encoded, err := ct.EncodeBody()
	if err != nil {
		t.Fatalf("EncodeBody failed: %v", err)
	}
	decodedBody, err := DecodeColorTable(encoded)
	if err != nil {
		t.Fatalf("DecodeColorTable failed: %v", err)
	}
	decoded := decodedBody.(ColorTable)
	if decoded.IndexType != ct.IndexType || len(decoded.Colors) != len(ct.Colors) || decoded.Colors[0] != ct.Colors[0] {
		t.Errorf("round trip mismatch: got %+v", decoded)
	}
}

func TestColorTableRejectsBadEntrySize(t *testing.T) {
	data := []byte{byte(ScalarUint8), 0, 1, 2, 3}
	if _, err := DecodeColorTable(data); err == nil {
		t.Fatal("expected rejection of table size not a multiple of entry size")
	}
}

func TestColorTableRejectsUnknownIndexType(t *testing.T) {
	ct := ColorTable{IndexType: ScalarFloat32, Colors: make([][4]byte, 1)}
	if _, err := ct.EncodeBody(); err == nil {
		t.Fatal("expected rejection of non-uint8/uint16 index type")
	}
}
