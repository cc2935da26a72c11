package session

import (
	"sync"

	"golang.org/x/time/rate"

	"openigtl/message"
)

// Handler processes one inbound message from one session. Returning
// false stops the chain for this message: no handler registered after
// it runs. Handlers are invoked in registration order, per spec §4.5;
// this is a simpler contract than mini-rpc's onion-model
// Middleware/Chain (middleware/middleware.go), since session handlers
// don't wrap each other's pre/post phases, they just run in sequence
// until one short-circuits.
type Handler interface {
	Handle(s *Session, msg *message.AnyMessage) (cont bool)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(s *Session, msg *message.AnyMessage) bool

func (f HandlerFunc) Handle(s *Session, msg *message.AnyMessage) bool { return f(s, msg) }

// RateLimitHandler throttles inbound frames per session using a
// token-bucket limiter, one bucket per session so one noisy client
// can't starve another. Grounded on mini-rpc's
// middleware/rate_limit_middleware.go (golang.org/x/time/rate,
// token-bucket semantics), adapted from an RPC-call gate into a
// per-session, per-message gate.
type RateLimitHandler struct {
	rate  rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[ID]*rate.Limiter
}

// NewRateLimitHandler builds a handler allowing r messages/sec per
// session with burst capacity b.
func NewRateLimitHandler(r float64, b int) *RateLimitHandler {
	return &RateLimitHandler{rate: rate.Limit(r), burst: b, limiters: make(map[ID]*rate.Limiter)}
}

// Handle denies (stops the chain for) a message once the session's
// bucket is empty.
func (h *RateLimitHandler) Handle(s *Session, _ *message.AnyMessage) bool {
	h.mu.Lock()
	limiter, ok := h.limiters[s.id]
	if !ok {
		limiter = rate.NewLimiter(h.rate, h.burst)
		h.limiters[s.id] = limiter
	}
	h.mu.Unlock()
	return limiter.Allow()
}

// forget drops a session's limiter state on disconnect, so
// limiters doesn't grow without bound across a long-lived server.
func (h *RateLimitHandler) forget(id ID) {
	h.mu.Lock()
	delete(h.limiters, id)
	h.mu.Unlock()
}
