package transport

import (
	"math/rand"
	"sync/atomic"
	"time"
)

// ReconnectPolicy configures the exponential-backoff reconnect loop
// used by AsyncTCPClient. Grounded on original_source's ReconnectConfig
// with the same field shape (max attempts, initial/max delay,
// multiplier, jitter toggle).
type ReconnectPolicy struct {
	MaxAttempts      int // 0 means unbounded
	InitialDelay     time.Duration
	MaxDelay         time.Duration
	BackoffMultiplier float64
	Jitter           bool
}

// DefaultReconnectPolicy mirrors the reference implementation's
// defaults: 10 attempts, 100ms initial delay, 30s ceiling, doubling,
// jitter on.
func DefaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		MaxAttempts:       10,
		InitialDelay:      100 * time.Millisecond,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            true,
	}
}

// InfiniteReconnectPolicy is DefaultReconnectPolicy with no attempt
// ceiling.
func InfiniteReconnectPolicy() ReconnectPolicy {
	p := DefaultReconnectPolicy()
	p.MaxAttempts = 0
	return p
}

// delay computes the backoff for attempt n (0-based): min(initial *
// multiplier^n, max), plus 0-25% jitter when enabled.
func (p ReconnectPolicy) delay(attempt int) time.Duration {
	raw := float64(p.InitialDelay) * pow(p.BackoffMultiplier, attempt)
	if max := float64(p.MaxDelay); raw > max {
		raw = max
	}
	d := time.Duration(raw)
	if p.Jitter {
		jitter := rand.Float64() * 0.25
		d += time.Duration(float64(d) * jitter)
	}
	return d
}

func pow(base float64, exp int) float64 {
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

// reconnectCounter is an atomic counter shared between the reconnect
// loop and telemetry readers, so a session's reconnect count can be
// observed without locking.
type reconnectCounter struct {
	n atomic.Uint64
}

func (c *reconnectCounter) inc() { c.n.Add(1) }

// Count returns the number of reconnects performed so far.
func (c *reconnectCounter) Count() uint64 { return c.n.Load() }
