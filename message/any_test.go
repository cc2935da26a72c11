package message

import (
	"testing"

	"openigtl/protocol"
)

func TestAnyMessageDecodeKnownType(t *testing.T) {
	env := NewEnvelope[Status](NewOKStatus("all systems go"), "Dev")
	encoded, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	header, err := protocol.Decode(encoded)
	if err != nil {
		t.Fatalf("header decode failed: %v", err)
	}

	any, err := Decode(*header, encoded[protocol.Size:], true)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	status, ok := As[Status](any)
	if !ok {
		t.Fatalf("expected Status content, got %T", any.Content)
	}
	if status.StatusString != "all systems go" {
		t.Errorf("StatusString = %q, want %q", status.StatusString, "all systems go")
	}
}

func TestAnyMessageDecodeUnknownTypeIsNotAnError(t *testing.T) {
	header := protocol.Header{Version: 2, TypeName: "VENDOR_EXT", DeviceName: "Dev", Timestamp: protocol.Now()}
	body := []byte{0x01, 0x02, 0x03}
	header.CRC = protocol.CRC64(body)

	any, err := Decode(header, body, true)
	if err != nil {
		t.Fatalf("Decode returned error for unrecognized type name: %v", err)
	}
	unknown, ok := As[Unknown](any)
	if !ok {
		t.Fatalf("expected Unknown content, got %T", any.Content)
	}
	if string(unknown.Body) != string(body) {
		t.Errorf("Unknown.Body = %v, want %v", unknown.Body, body)
	}
}

func TestAnyMessageCRCMismatch(t *testing.T) {
	header := protocol.Header{Version: 2, TypeName: "STATUS", DeviceName: "Dev", CRC: 0xDEADBEEF}
	if _, err := Decode(header, []byte("not really a status body"), true); err == nil {
		t.Fatal("expected CRC mismatch error")
	}
}

func TestAnyMessageSkipsCRCWhenNotVerifying(t *testing.T) {
	header := protocol.Header{Version: 2, TypeName: "GET_STATUS", DeviceName: "Dev", CRC: 0xDEADBEEF}
	any, err := Decode(header, nil, false)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if any.MessageType() != "GET_STATUS" {
		t.Errorf("MessageType() = %q, want GET_STATUS", any.MessageType())
	}
}
