// Package client provides a type-state builder for constructing
// OpenIGTLink transports. Distinct Go types stand in for the phantom
// type parameters the reference implementation uses: each builder step
// returns a different concrete type, so an invalid combination (UDP
// with TLS, sync mode with a reconnect policy) has no method to call
// and fails at compile time rather than at runtime.
//
// State graph:
//
//	Unspecified --Tcp()--> TCPBuilder --Sync()--> SyncTCPBuilder  --Build()--> *transport.SyncTCPClient
//	                                  \-Async()-> AsyncTCPBuilder --WithTLS()/WithReconnect()/VerifyCRC()-->
//	                                              AsyncTCPBuilder --Build()--> *transport.AsyncTCPClient
//	Unspecified --Udp()--> UDPBuilder --Build()--> *transport.SyncUDPConn
package client

import (
	"crypto/tls"
	"time"

	"openigtl/transport"
)

// Builder is the entry point; it carries no configuration of its own.
type Builder struct{}

// New starts a fresh builder.
func New() Builder { return Builder{} }

// Tcp commits to the TCP protocol axis.
func (Builder) Tcp(addr string) TCPBuilder {
	return TCPBuilder{addr: addr}
}

// Udp commits to the UDP protocol axis. UDPBuilder has no TLS or
// reconnect methods: there is no way to call WithTLS on a value of this
// type, which is what makes udp().with_tls() a compile error instead of
// a documented restriction.
func (Builder) Udp(addr string) UDPBuilder {
	return UDPBuilder{addr: addr, verifyCRC: true}
}

// TCPBuilder has committed to TCP but not yet to sync or async mode.
type TCPBuilder struct {
	addr string
}

// Sync commits to the blocking transport.
func (b TCPBuilder) Sync() SyncTCPBuilder {
	return SyncTCPBuilder{addr: b.addr, cfg: transport.DefaultSyncTCPConfig()}
}

// Async commits to the non-blocking transport, the only mode on which
// TLS and reconnect are available.
func (b TCPBuilder) Async() AsyncTCPBuilder {
	return AsyncTCPBuilder{addr: b.addr, cfg: transport.AsyncTCPConfig{VerifyCRC: true}}
}

// SyncTCPBuilder configures a blocking TCP client. It has no WithTLS or
// WithReconnect methods: those are async-only per spec, so they simply
// don't exist on this type.
type SyncTCPBuilder struct {
	addr string
	cfg  transport.SyncTCPConfig
}

// VerifyCRC toggles CRC verification on received frames.
func (b SyncTCPBuilder) VerifyCRC(verify bool) SyncTCPBuilder {
	b.cfg.VerifyCRC = verify
	return b
}

// WithTimeouts sets the read/write deadlines applied to each operation.
func (b SyncTCPBuilder) WithTimeouts(read, write time.Duration) SyncTCPBuilder {
	b.cfg.ReadTimeout = read
	b.cfg.WriteTimeout = write
	return b
}

// Build dials addr and returns a ready-to-use blocking TCP client.
func (b SyncTCPBuilder) Build() (*transport.SyncTCPClient, error) {
	return transport.DialSyncTCP(b.addr, b.cfg)
}

// AsyncTCPBuilder configures a non-blocking TCP client. WithTLS and
// WithReconnect are only reachable from this type.
type AsyncTCPBuilder struct {
	addr string
	cfg  transport.AsyncTCPConfig
}

// VerifyCRC toggles CRC verification on received frames.
func (b AsyncTCPBuilder) VerifyCRC(verify bool) AsyncTCPBuilder {
	b.cfg.VerifyCRC = verify
	return b
}

// WithTLS wraps the connection in TLS using the system root
// certificate pool, validating the peer against serverName.
func (b AsyncTCPBuilder) WithTLS(serverName string) AsyncTCPBuilder {
	b.cfg.TLSConfig = transport.TLSClientConfig(serverName)
	return b
}

// WithCustomTLS installs a caller-supplied *tls.Config, for the
// test-only insecure verifier or a pinned certificate pool.
func (b AsyncTCPBuilder) WithCustomTLS(cfg *tls.Config) AsyncTCPBuilder {
	b.cfg.TLSConfig = cfg
	return b
}

// WithReconnect enables automatic reconnection under policy.
func (b AsyncTCPBuilder) WithReconnect(policy transport.ReconnectPolicy) AsyncTCPBuilder {
	p := policy
	b.cfg.Reconnect = &p
	return b
}

// Build dials addr (performing the TLS handshake immediately if
// configured) and returns a ready-to-use async TCP client.
func (b AsyncTCPBuilder) Build() (*transport.AsyncTCPClient, error) {
	return transport.ConnectAsyncTCP(b.addr, b.cfg)
}

// UDPBuilder configures a UDP client. There is no Sync/Async split:
// UDP is inherently datagram-at-a-time and has exactly one transport
// shape.
type UDPBuilder struct {
	addr      string
	verifyCRC bool
}

// VerifyCRC toggles CRC verification on received datagrams.
func (b UDPBuilder) VerifyCRC(verify bool) UDPBuilder {
	b.verifyCRC = verify
	return b
}

// Build dials addr and returns a ready-to-use UDP client.
func (b UDPBuilder) Build() (*transport.SyncUDPConn, error) {
	return transport.DialSyncUDP(b.addr, b.verifyCRC)
}
