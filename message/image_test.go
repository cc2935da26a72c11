package message

import "testing"

func TestImageRoundTrip(t *testing.T) {
	img := Image{
		Components: 1,
		ScalarType: ScalarUint8,
		Endian:     EndianBig,
		Coordinate: CoordinateRAS,
		Size:       [3]uint16{2, 2, 1},
		Pixels:     []byte{1, 2, 3, 4},
	}
	encoded, err := img.EncodeBody()
	if err != nil {
		t.Fatalf("EncodeBody failed: %v", err)
	}
	if len(encoded) != imageHeaderSize+4 {
		t.Fatalf("encoded length = %d, want %d", len(encoded), imageHeaderSize+4)
	}
	decodedBody, err := DecodeImage(encoded)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	decoded := decodedBody.(Image)
	if decoded.Size != img.Size || string(decoded.Pixels) != string(img.Pixels) {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, img)
	}
}

func TestImageRejectsPixelCountMismatch(t *testing.T) {
	img := Image{Components: 1, ScalarType: ScalarUint8, Size: [3]uint16{2, 2, 1}, Pixels: []byte{1, 2, 3}}
	if _, err := img.EncodeBody(); err == nil {
		t.Fatal("expected rejection of mismatched pixel count")
	}
}

func TestImageRejectsUnknownScalarType(t *testing.T) {
	img := Image{ScalarType: ScalarType(200), Size: [3]uint16{1, 1, 1}, Components: 1, Pixels: []byte{1}}
	if _, err := img.EncodeBody(); err == nil {
		t.Fatal("expected rejection of unknown scalar type")
	}
}
