package message

import (
	"math"
	"testing"
)

func TestTransformRoundTrip(t *testing.T) {
	tr := NewIdentityTransform()
	tr.Matrix[0][3] = 10
	tr.Matrix[1][3] = -5.5
	tr.Matrix[2][3] = 3.25

	encoded, err := tr.EncodeBody()
	if err != nil {
		t.Fatalf("EncodeBody failed: %v", err)
	}
	if len(encoded) != transformBodySize {
		t.Fatalf("encoded length = %d, want %d", len(encoded), transformBodySize)
	}

	decodedBody, err := DecodeTransform(encoded)
	if err != nil {
		t.Fatalf("DecodeTransform failed: %v", err)
	}
	decoded := decodedBody.(Transform)
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if math.Abs(float64(decoded.Matrix[row][col]-tr.Matrix[row][col])) > 1e-6 {
				t.Errorf("Matrix[%d][%d] = %v, want %v", row, col, decoded.Matrix[row][col], tr.Matrix[row][col])
			}
		}
	}
}

func TestTransformDecodeRejectsWrongSize(t *testing.T) {
	if _, err := DecodeTransform(make([]byte, 47)); err == nil {
		t.Fatal("expected rejection of 47-byte body")
	}
	if _, err := DecodeTransform(make([]byte, 49)); err == nil {
		t.Fatal("expected rejection of 49-byte body")
	}
}

func TestTransformTypeName(t *testing.T) {
	if got := (Transform{}).TypeName(); got != "TRANSFORM" {
		t.Errorf("TypeName() = %q, want TRANSFORM", got)
	}
}
