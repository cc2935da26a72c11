package transport

import (
	"net"
	"testing"
	"time"

	"openigtl/message"
)

func TestSyncTCPRoundTrip(t *testing.T) {
	srv, err := ListenSyncTCP("127.0.0.1:0", DefaultSyncTCPConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	received := make(chan *message.AnyMessage, 1)
	go srv.Serve(func(conn net.Conn, frame *message.AnyMessage, frameErr error) {
		if frameErr != nil {
			return
		}
		received <- frame
	})

	client, err := DialSyncTCP(srv.Addr().String(), DefaultSyncTCPConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	env := message.NewEnvelope(message.Status{Code: message.StatusOK, StatusString: "ready"}, "Probe")
	frame, err := env.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Send(frame); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-received:
		if got.MessageType() != "STATUS" {
			t.Errorf("type = %q, want STATUS", got.MessageType())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server to receive frame")
	}
}

func TestSyncTCPClientReceivesServerReply(t *testing.T) {
	srv, err := ListenSyncTCP("127.0.0.1:0", DefaultSyncTCPConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	go srv.Serve(func(conn net.Conn, frame *message.AnyMessage, frameErr error) {
		if frameErr != nil {
			return
		}
		reply := message.NewEnvelope(message.NewOKStatus("pong"), "Server")
		out, err := reply.Encode()
		if err != nil {
			return
		}
		conn.Write(out)
	})

	client, err := DialSyncTCP(srv.Addr().String(), DefaultSyncTCPConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	req := message.NewEnvelope(message.NewOKStatus("ping"), "Client")
	frame, err := req.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Send(frame); err != nil {
		t.Fatal(err)
	}

	client.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	got, err := client.Receive()
	if err != nil {
		t.Fatal(err)
	}
	status, ok := message.As[message.Status](got)
	if !ok {
		t.Fatalf("expected Status content, got %T", got.Content)
	}
	if status.StatusString != "pong" {
		t.Errorf("StatusString = %q, want %q", status.StatusString, "pong")
	}
}
