package message

import "testing"

func TestStatusRoundTrip(t *testing.T) {
	s := NewErrorStatus("IOError", "disk full")
	encoded, err := s.EncodeBody()
	if err != nil {
		t.Fatalf("EncodeBody failed: %v", err)
	}
	decodedBody, err := DecodeStatus(encoded)
	if err != nil {
		t.Fatalf("DecodeStatus failed: %v", err)
	}
	decoded := decodedBody.(Status)
	if decoded != s {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, s)
	}
}

func TestStatusEmptyStringRoundTrips(t *testing.T) {
	s := NewOKStatus("")
	encoded, err := s.EncodeBody()
	if err != nil {
		t.Fatalf("EncodeBody failed: %v", err)
	}
	if len(encoded) != statusMinBodySize {
		t.Fatalf("encoded length = %d, want %d", len(encoded), statusMinBodySize)
	}
	decodedBody, err := DecodeStatus(encoded)
	if err != nil {
		t.Fatalf("DecodeStatus failed: %v", err)
	}
	if decodedBody.(Status).StatusString != "" {
		t.Errorf("StatusString = %q, want empty", decodedBody.(Status).StatusString)
	}
}

func TestStatusErrorNameTruncatesRatherThanRejects(t *testing.T) {
	longName := "ThisNameIsDefinitelyLongerThanTwentyBytes"
	s := NewErrorStatus(longName, "oops")
	encoded, err := s.EncodeBody()
	if err != nil {
		t.Fatalf("EncodeBody failed: %v", err)
	}
	decodedBody, err := DecodeStatus(encoded)
	if err != nil {
		t.Fatalf("DecodeStatus failed: %v", err)
	}
	decoded := decodedBody.(Status)
	if len(decoded.ErrorName) != statusErrorNameWidth-1 {
		t.Errorf("ErrorName length = %d, want %d", len(decoded.ErrorName), statusErrorNameWidth-1)
	}
}

func TestStatusDecodeRejectsShortBody(t *testing.T) {
	if _, err := DecodeStatus(make([]byte, statusMinBodySize-1)); err == nil {
		t.Fatal("expected rejection of undersized STATUS body")
	}
}
