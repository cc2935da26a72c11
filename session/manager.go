package session

import (
	"context"
	"errors"
	"log"
	"net"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"openigtl/message"
	"openigtl/protocol"
	"openigtl/telemetry"
)

var (
	errSessionClosed = errors.New("session: send on closed session")
	errOutboundFull  = errors.New("session: outbound queue full")
)

// Manager accepts connections on one listening socket and fans each
// one out to its own reader/writer goroutine pair, dispatching inbound
// messages through a shared handler chain. Grounded on
// mini-rpc/server/server.go's Serve/handleConn Accept loop (one
// goroutine per connection, sync.WaitGroup-tracked graceful shutdown)
// and original_source/src/io/session_manager.rs's SessionManager
// (monotonic client ids, registered MessageHandlers, per-client
// unbounded outbound channel, split read/write tasks).
type Manager struct {
	listener  net.Listener
	verifyCRC bool

	mu       sync.RWMutex
	sessions map[ID]*Session
	nextID   atomic.Uint64

	handlersMu sync.RWMutex
	handlers   []Handler

	shutdown atomic.Bool
}

// Listen binds addr and returns a Manager ready to AcceptClients.
func Listen(addr string, verifyCRC bool) (*Manager, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, protocol.ErrIO("listen", err)
	}
	return &Manager{listener: l, verifyCRC: verifyCRC, sessions: make(map[ID]*Session)}, nil
}

// Addr returns the bound listen address.
func (m *Manager) Addr() net.Addr { return m.listener.Addr() }

// Use registers a handler. Handlers run in registration order for
// every inbound message on every session; the first one that returns
// false stops the chain for that message.
func (m *Manager) Use(h Handler) {
	m.handlersMu.Lock()
	m.handlers = append(m.handlers, h)
	m.handlersMu.Unlock()
}

// SessionCount returns the number of currently connected sessions.
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Session looks up a session by id.
func (m *Manager) Session(id ID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Broadcast enqueues frame on every connected session. A session whose
// outbound channel is full does not get the frame, and Broadcast
// reports no error for it.
func (m *Manager) Broadcast(frame []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		s.Send(frame)
	}
}

// SendTo enqueues frame on a single session by id.
func (m *Manager) SendTo(id ID, frame []byte) error {
	s, ok := m.Session(id)
	if !ok {
		return errors.New("session: unknown session id")
	}
	return s.Send(frame)
}

// Disconnect closes one session's connection, which unblocks its
// reader/writer goroutines and triggers cleanup.
func (m *Manager) Disconnect(id ID) error {
	s, ok := m.Session(id)
	if !ok {
		return errors.New("session: unknown session id")
	}
	return s.conn.Close()
}

// AcceptClients runs the accept loop until ctx is cancelled or the
// listener is closed via Shutdown, spawning one goroutine pair per
// accepted connection.
func (m *Manager) AcceptClients(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { m.Shutdown() })
	defer stop()
	for {
		conn, err := m.listener.Accept()
		if err != nil {
			if m.shutdown.Load() {
				return nil
			}
			return protocol.ErrIO("accept", err)
		}
		go m.handleConn(ctx, conn)
	}
}

func (m *Manager) handleConn(ctx context.Context, conn net.Conn) {
	id := ID(m.nextID.Add(1))
	s := newSession(id, conn)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	telemetry.SessionCount.Set(float64(m.SessionCount()))

	log.Printf("session %d: connected from %s", id, conn.RemoteAddr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.writerLoop(gctx, s) })
	g.Go(func() error { return m.readerLoop(s) })
	g.Wait()

	conn.Close()
	s.markClosed()
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	telemetry.SessionCount.Set(float64(m.SessionCount()))
	m.forgetFromRateLimiters(id)

	log.Printf("session %d: disconnected", id)
}

func (m *Manager) forgetFromRateLimiters(id ID) {
	m.handlersMu.RLock()
	defer m.handlersMu.RUnlock()
	for _, h := range m.handlers {
		if rl, ok := h.(*RateLimitHandler); ok {
			rl.forget(id)
		}
	}
}

// writerLoop drains the session's outbound channel into the connection,
// flushing on every write to avoid Nagle batching (the TCP transport's
// own convention, reused here since a session's connection is a plain
// net.Conn).
func (m *Manager) writerLoop(ctx context.Context, s *Session) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-s.outbound:
			if !ok {
				return nil
			}
			if _, err := s.conn.Write(frame); err != nil {
				return protocol.ErrIO("session write", err)
			}
		}
	}
}

// readerLoop blocking-reads frames from the connection and dispatches
// each one through the handler chain in registration order.
func (m *Manager) readerLoop(s *Session) error {
	for {
		headerBuf := make([]byte, protocol.Size)
		if _, err := readFullConn(s.conn, headerBuf); err != nil {
			return err
		}
		header, err := protocol.Decode(headerBuf)
		if err != nil {
			return err
		}
		tail := make([]byte, header.BodySize)
		if header.BodySize > 0 {
			if _, err := readFullConn(s.conn, tail); err != nil {
				return err
			}
		}
		msg, err := message.Decode(*header, tail, m.verifyCRC)
		if err != nil {
			log.Printf("session %d: dropping malformed frame: %v", s.id, err)
			continue
		}
		m.dispatch(s, msg)
	}
}

func (m *Manager) dispatch(s *Session, msg *message.AnyMessage) {
	m.handlersMu.RLock()
	handlers := m.handlers
	m.handlersMu.RUnlock()
	for _, h := range handlers {
		if !h.Handle(s, msg) {
			return
		}
	}
}

func readFullConn(conn net.Conn, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := conn.Read(buf[n:])
		n += m
		if err != nil {
			return n, protocol.ErrIO("session read", err)
		}
	}
	return n, nil
}

// Shutdown stops accepting new connections and closes the listener.
// In-flight sessions are not force-closed; callers that need that
// should Disconnect each session explicitly.
func (m *Manager) Shutdown() error {
	m.shutdown.Store(true)
	return m.listener.Close()
}
