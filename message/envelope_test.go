package message

import (
	"testing"

	"github.com/go-test/deep"

	"openigtl/protocol"
)

func TestEnvelopeRoundTripTransform(t *testing.T) {
	tr := NewIdentityTransform()
	tr.Matrix[0][3] = 42

	env := NewEnvelope[Transform](tr, "TestDevice")
	encoded, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	header, err := protocol.Decode(encoded)
	if err != nil {
		t.Fatalf("header decode failed: %v", err)
	}
	tail := encoded[protocol.Size:]
	if uint64(len(tail)) != header.BodySize {
		t.Fatalf("tail length = %d, header.BodySize = %d", len(tail), header.BodySize)
	}

	decoded, err := DecodeEnvelope[Transform](*header, tail, DecodeTransform, true)
	if err != nil {
		t.Fatalf("DecodeEnvelope failed: %v", err)
	}
	if diff := deep.Equal(decoded.Content, env.Content); diff != nil {
		t.Error(diff)
	}
	if decoded.Header.DeviceName != "TestDevice" {
		t.Errorf("DeviceName = %q, want TestDevice", decoded.Header.DeviceName)
	}
}

func TestEnvelopeCRCMismatchRejected(t *testing.T) {
	env := NewEnvelope[Transform](NewIdentityTransform(), "Dev")
	encoded, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	encoded[protocol.Size] ^= 0xFF // corrupt first byte of the tail

	header, err := protocol.Decode(encoded)
	if err != nil {
		t.Fatalf("header decode failed: %v", err)
	}
	tail := encoded[protocol.Size:]

	_, err = DecodeEnvelope[Transform](*header, tail, DecodeTransform, true)
	if err == nil {
		t.Fatal("expected CRC mismatch error")
	}
}

func TestEnvelopeMetadataRoundTrip(t *testing.T) {
	env := NewEnvelope[Status](NewOKStatus("ready"), "Dev")
	env.Header.Version = 3
	ext := protocol.NewExtendedHeader()
	env.ExtendedHeader = &ext
	env.Metadata = map[string]string{"session": "abc123"}

	encoded, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	header, err := protocol.Decode(encoded)
	if err != nil {
		t.Fatalf("header decode failed: %v", err)
	}
	tail := encoded[protocol.Size:]

	decoded, err := DecodeEnvelope[Status](*header, tail, DecodeStatus, true)
	if err != nil {
		t.Fatalf("DecodeEnvelope failed: %v", err)
	}
	if decoded.Metadata["session"] != "abc123" {
		t.Errorf("Metadata[session] = %q, want abc123", decoded.Metadata["session"])
	}
}
