package transport

import (
	"testing"
	"time"

	"openigtl/message"
)

func TestSyncUDPRoundTrip(t *testing.T) {
	server, err := ListenSyncUDP("127.0.0.1:0", true)
	if err != nil {
		t.Fatal(err)
	}
	defer server.Close()

	client, err := DialSyncUDP(server.LocalAddr().String(), true)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	env := message.NewEnvelope(message.NewOKStatus("udp-ping"), "Client")
	frame, err := env.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Send(frame); err != nil {
		t.Fatal(err)
	}

	server.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	got, _, err := server.Receive()
	if err != nil {
		t.Fatal(err)
	}
	status, ok := message.As[message.Status](got)
	if !ok {
		t.Fatalf("expected Status content, got %T", got.Content)
	}
	if status.StatusString != "udp-ping" {
		t.Errorf("StatusString = %q, want %q", status.StatusString, "udp-ping")
	}
}

func TestSyncUDPRejectsOversizedFrame(t *testing.T) {
	conn, err := ListenSyncUDP("127.0.0.1:0", true)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	client, err := DialSyncUDP(conn.LocalAddr().String(), true)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	if err := client.Send(make([]byte, MaxUDPDatagram+1)); err == nil {
		t.Fatal("expected BodyTooLarge rejection")
	}
}
