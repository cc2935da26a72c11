package transport

import (
	"net"

	"openigtl/message"
	"openigtl/protocol"
)

// MaxUDPDatagram is the IPv4 UDP payload ceiling (65535 minus the 8-byte
// UDP header minus the 20-byte minimum IP header): the largest single
// frame a UDP transport can carry in one datagram.
const MaxUDPDatagram = 65507

// SyncUDPConn wraps a connectionless UDP socket. Each datagram is
// exactly one OpenIGTLink frame; there are no delivery, ordering, or
// retransmission guarantees, and the transport makes none either.
type SyncUDPConn struct {
	conn      *net.UDPConn
	verifyCRC bool
}

// DialSyncUDP "connects" a UDP socket to a fixed peer address, for a
// client that always talks to one server.
func DialSyncUDP(addr string, verifyCRC bool) (*SyncUDPConn, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, protocol.ErrIO("resolve address", err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, protocol.ErrIO("dial", err)
	}
	return &SyncUDPConn{conn: conn, verifyCRC: verifyCRC}, nil
}

// ListenSyncUDP binds a UDP socket for a server (or a client expecting
// replies from more than one peer).
func ListenSyncUDP(addr string, verifyCRC bool) (*SyncUDPConn, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, protocol.ErrIO("resolve address", err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, protocol.ErrIO("listen", err)
	}
	return &SyncUDPConn{conn: conn, verifyCRC: verifyCRC}, nil
}

// LocalAddr returns the bound local address.
func (c *SyncUDPConn) LocalAddr() net.Addr { return c.conn.LocalAddr() }

// Close closes the socket.
func (c *SyncUDPConn) Close() error { return c.conn.Close() }

// Send writes frame as a single datagram to the connected peer. Send
// rejects a frame over MaxUDPDatagram before it ever reaches the
// kernel, since a partial UDP write silently truncates the message
// instead of erroring.
func (c *SyncUDPConn) Send(frame []byte) error {
	if len(frame) > MaxUDPDatagram {
		return protocol.ErrBodyTooLarge(uint64(len(frame)), MaxUDPDatagram)
	}
	if _, err := c.conn.Write(frame); err != nil {
		return protocol.ErrIO("write datagram", err)
	}
	return nil
}

// SendTo writes frame as a single datagram to the given peer address,
// for a server socket handling multiple clients.
func (c *SyncUDPConn) SendTo(frame []byte, peer *net.UDPAddr) error {
	if len(frame) > MaxUDPDatagram {
		return protocol.ErrBodyTooLarge(uint64(len(frame)), MaxUDPDatagram)
	}
	if _, err := c.conn.WriteToUDP(frame, peer); err != nil {
		return protocol.ErrIO("write datagram", err)
	}
	return nil
}

// Receive blocks for exactly one datagram and decodes it as exactly one
// frame, returning the sender's address alongside it.
func (c *SyncUDPConn) Receive() (*message.AnyMessage, *net.UDPAddr, error) {
	buf := make([]byte, MaxUDPDatagram)
	n, peer, err := c.conn.ReadFromUDP(buf)
	if err != nil {
		return nil, nil, protocol.ErrIO("read datagram", err)
	}
	frame, decErr := decodeFrame(buf[:n], c.verifyCRC)
	return frame, peer, decErr
}

// decodeFrame parses a complete in-memory frame (header plus tail),
// unlike readFrame in sync_tcp.go which reads from a stream.
func decodeFrame(buf []byte, verifyCRC bool) (*message.AnyMessage, error) {
	if len(buf) < protocol.Size {
		return nil, protocol.ErrInvalidSize(protocol.Size, uint64(len(buf)), "datagram smaller than header")
	}
	header, err := protocol.Decode(buf[:protocol.Size])
	if err != nil {
		return nil, err
	}
	tail := buf[protocol.Size:]
	if uint64(len(tail)) != header.BodySize {
		return nil, protocol.ErrInvalidSize(header.BodySize, uint64(len(tail)), "datagram body size does not match header")
	}
	return message.Decode(*header, tail, verifyCRC)
}
