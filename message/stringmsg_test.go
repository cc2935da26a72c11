package message

import "testing"

func TestStringRoundTrip(t *testing.T) {
	s := NewUTF8String("hello, OpenIGTLink")
	encoded, err := s.EncodeBody()
	if err != nil {
		t.Fatalf("EncodeBody failed: %v", err)
	}
	decodedBody, err := DecodeString(encoded)
	if err != nil {
		t.Fatalf("DecodeString failed: %v", err)
	}
	if decodedBody.(String) != s {
		t.Errorf("round trip mismatch: got %+v, want %+v", decodedBody.(String), s)
	}
}

func TestStringEmptyRoundTrips(t *testing.T) {
	s := NewUTF8String("")
	encoded, err := s.EncodeBody()
	if err != nil {
		t.Fatalf("EncodeBody failed: %v", err)
	}
	if len(encoded) != 4 {
		t.Fatalf("encoded length = %d, want 4", len(encoded))
	}
	decodedBody, err := DecodeString(encoded)
	if err != nil {
		t.Fatalf("DecodeString failed: %v", err)
	}
	if decodedBody.(String).Text != "" {
		t.Error("expected empty text")
	}
}

func TestStringRejectsLengthMismatch(t *testing.T) {
	if _, err := DecodeString([]byte{0, 3, 0, 5, 'h', 'i'}); err == nil {
		t.Fatal("expected rejection of declared-vs-actual length mismatch")
	}
}
