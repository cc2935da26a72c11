package transport

import (
	"crypto/tls"

	"openigtl/protocol"
)

// TLSClientConfig builds the client-side *tls.Config. With no
// overrides it uses the system root certificate pool, matching the
// reference implementation's default. insecureSkipVerify must only ever
// be set by TestOnlyInsecureTLSConfig below.
func TLSClientConfig(serverName string) *tls.Config {
	return &tls.Config{
		ServerName: serverName,
		MinVersion: tls.VersionTLS12,
	}
}

// TestOnlyInsecureTLSConfig returns a client TLS config that accepts
// any server certificate. It exists for integration tests against a
// self-signed loopback server and must never be reachable from
// production construction paths (there is no builder method that
// produces it outside _test.go files).
func TestOnlyInsecureTLSConfig() *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: true, //nolint:gosec // test-only, never the default
		MinVersion:         tls.VersionTLS12,
	}
}

// TLSServerConfig loads a PEM certificate and private key and returns a
// server-side *tls.Config ready to wrap a listener.
func TLSServerConfig(certFile, keyFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, protocol.ErrIO("load tls certificate", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
