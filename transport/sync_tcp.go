// Package transport implements the OpenIGTLink wire transports: blocking
// TCP and UDP, non-blocking TCP with optional TLS, and the reconnect
// policy that wraps it. Every transport frames
// [openigtl/message.AnyMessage] the same way: a 58-byte header read
// first, then exactly BodySize more bytes for the tail.
package transport

import (
	"net"
	"time"

	"openigtl/message"
	"openigtl/protocol"
)

// SyncTCPConfig carries the per-connection knobs spec §4.4 calls out
// for the blocking TCP transport.
type SyncTCPConfig struct {
	ReadTimeout  time.Duration // zero means no deadline
	WriteTimeout time.Duration
	NoDelay      bool // disable Nagle, matters at tracking-stream rates
	SendBuffer   int  // SO_SNDBUF, zero leaves the OS default
	RecvBuffer   int  // SO_RCVBUF, zero leaves the OS default
	VerifyCRC    bool
}

// DefaultSyncTCPConfig matches the reference client's defaults: no
// timeouts, Nagle disabled, CRC verification on.
func DefaultSyncTCPConfig() SyncTCPConfig {
	return SyncTCPConfig{NoDelay: true, VerifyCRC: true}
}

// SyncTCPClient is a blocking TCP client. It has no background
// goroutines: Send and Receive both block the calling goroutine for the
// duration of the I/O.
type SyncTCPClient struct {
	conn *net.TCPConn
	cfg  SyncTCPConfig
}

// DialSyncTCP connects to addr and applies cfg's socket options.
func DialSyncTCP(addr string, cfg SyncTCPConfig) (*SyncTCPClient, error) {
	raddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, protocol.ErrIO("resolve address", err)
	}
	conn, err := net.DialTCP("tcp", nil, raddr)
	if err != nil {
		return nil, protocol.ErrIO("dial", err)
	}
	c := &SyncTCPClient{conn: conn, cfg: cfg}
	if err := c.applySocketOptions(); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

func (c *SyncTCPClient) applySocketOptions() error {
	if err := c.conn.SetNoDelay(c.cfg.NoDelay); err != nil {
		return protocol.ErrIO("set no-delay", err)
	}
	if c.cfg.SendBuffer > 0 {
		if err := c.conn.SetWriteBuffer(c.cfg.SendBuffer); err != nil {
			return protocol.ErrIO("set send buffer", err)
		}
	}
	if c.cfg.RecvBuffer > 0 {
		if err := c.conn.SetReadBuffer(c.cfg.RecvBuffer); err != nil {
			return protocol.ErrIO("set recv buffer", err)
		}
	}
	return nil
}

// Send writes an already-encoded frame in a single Write call. Nagle
// coalescing is governed by the NoDelay socket option (on in
// DefaultSyncTCPConfig); there is no separate flush step.
func (c *SyncTCPClient) Send(frame []byte) error {
	if c.cfg.WriteTimeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}
	if _, err := c.conn.Write(frame); err != nil {
		return protocol.ErrIO("write frame", err)
	}
	return nil
}

// Receive blocks for one complete frame: a fixed 58-byte header read,
// then exactly header.BodySize more bytes, mirroring the reference
// client's two read_exact calls.
func (c *SyncTCPClient) Receive() (*message.AnyMessage, error) {
	if c.cfg.ReadTimeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	}
	return readFrame(c.conn, c.cfg.VerifyCRC)
}

// Close closes the underlying connection.
func (c *SyncTCPClient) Close() error { return c.conn.Close() }

// RemoteAddr returns the peer address.
func (c *SyncTCPClient) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// readFrame is shared by the sync TCP client and the sync TCP server:
// read the header, then read exactly BodySize more bytes, then dispatch
// through message.Decode.
func readFrame(conn net.Conn, verifyCRC bool) (*message.AnyMessage, error) {
	headerBuf := make([]byte, protocol.Size)
	if _, err := readFull(conn, headerBuf); err != nil {
		return nil, err
	}
	header, err := protocol.Decode(headerBuf)
	if err != nil {
		return nil, err
	}
	tail := make([]byte, header.BodySize)
	if header.BodySize > 0 {
		if _, err := readFull(conn, tail); err != nil {
			return nil, err
		}
	}
	return message.Decode(*header, tail, verifyCRC)
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := conn.Read(buf[n:])
		n += m
		if err != nil {
			return n, protocol.ErrIO("read frame", err)
		}
	}
	return n, nil
}

// SyncTCPServer accepts connections and hands each one to handler in
// its own goroutine, reading frames in a blocking loop until the
// connection closes or a framing error occurs. It mirrors mini-rpc's
// Server.Serve/handleConn Accept loop, simplified to one handler
// callback instead of a service registry and middleware chain.
type SyncTCPServer struct {
	listener net.Listener
	cfg      SyncTCPConfig
}

// ListenSyncTCP binds addr and returns a server ready to Serve.
func ListenSyncTCP(addr string, cfg SyncTCPConfig) (*SyncTCPServer, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, protocol.ErrIO("listen", err)
	}
	return &SyncTCPServer{listener: l, cfg: cfg}, nil
}

// Addr returns the bound listen address.
func (s *SyncTCPServer) Addr() net.Addr { return s.listener.Addr() }

// Close stops accepting new connections.
func (s *SyncTCPServer) Close() error { return s.listener.Close() }

// ConnHandler processes one accepted connection's frames until
// readFrame returns an error (EOF or framing failure).
type ConnHandler func(conn net.Conn, frame *message.AnyMessage, frameErr error)

// Serve accepts connections forever, spawning one goroutine per
// connection that blocking-reads frames and invokes handler for each.
// Serve returns when the listener is closed.
func (s *SyncTCPServer) Serve(handler ConnHandler) error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}
		tcpConn, ok := conn.(*net.TCPConn)
		if ok {
			tcpConn.SetNoDelay(s.cfg.NoDelay)
			if s.cfg.SendBuffer > 0 {
				tcpConn.SetWriteBuffer(s.cfg.SendBuffer)
			}
			if s.cfg.RecvBuffer > 0 {
				tcpConn.SetReadBuffer(s.cfg.RecvBuffer)
			}
		}
		go s.handleConn(conn, handler)
	}
}

func (s *SyncTCPServer) handleConn(conn net.Conn, handler ConnHandler) {
	defer conn.Close()
	for {
		if s.cfg.ReadTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}
		frame, err := readFrame(conn, s.cfg.VerifyCRC)
		if err != nil {
			handler(conn, nil, err)
			return
		}
		handler(conn, frame, nil)
	}
}
