package client

import (
	"net"
	"testing"
	"time"

	"openigtl/message"
	"openigtl/transport"
)

func TestSyncTCPBuilderBuildsWorkingClient(t *testing.T) {
	srv, err := transport.ListenSyncTCP("127.0.0.1:0", transport.DefaultSyncTCPConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	received := make(chan *message.AnyMessage, 1)
	go srv.Serve(func(conn net.Conn, frame *message.AnyMessage, frameErr error) {
		if frameErr == nil {
			received <- frame
		}
	})

	c, err := New().Tcp(srv.Addr().String()).Sync().VerifyCRC(true).Build()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	env := message.NewEnvelope(message.NewOKStatus("builder"), "Client")
	frame, err := env.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Send(frame); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-received:
		if got.MessageType() != "STATUS" {
			t.Errorf("type = %q, want STATUS", got.MessageType())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
}

func TestUDPBuilderBuildsWorkingClient(t *testing.T) {
	srv, err := transport.ListenSyncUDP("127.0.0.1:0", true)
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	c, err := New().Udp(srv.LocalAddr().String()).VerifyCRC(true).Build()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	env := message.NewEnvelope(message.NewOKStatus("udp-builder"), "Client")
	frame, err := env.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Send(frame); err != nil {
		t.Fatal(err)
	}
}

// UDPBuilder intentionally has no WithTLS method: there is nothing to
// call here, which is the point. This test exists to document that
// constraint for readers, not to exercise new behavior.
func TestUDPBuilderHasNoTLSMethod(t *testing.T) {
	_ = New().Udp("127.0.0.1:0")
}
