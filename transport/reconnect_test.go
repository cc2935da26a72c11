package transport

import (
	"testing"
	"time"
)

func TestReconnectDelayGrowsAndCaps(t *testing.T) {
	p := ReconnectPolicy{
		InitialDelay:      100 * time.Millisecond,
		MaxDelay:          1 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            false,
	}
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{5, 1 * time.Second}, // capped
	}
	for _, tc := range cases {
		if got := p.delay(tc.attempt); got != tc.want {
			t.Errorf("delay(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

func TestReconnectJitterStaysWithinBounds(t *testing.T) {
	p := ReconnectPolicy{
		InitialDelay:      100 * time.Millisecond,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            true,
	}
	base := 100 * time.Millisecond
	for i := 0; i < 20; i++ {
		got := p.delay(0)
		if got < base || got > base+base/4 {
			t.Fatalf("delay(0) = %v, want within [%v, %v]", got, base, base+base/4)
		}
	}
}

func TestReconnectCounter(t *testing.T) {
	var c reconnectCounter
	if c.Count() != 0 {
		t.Fatalf("initial count = %d, want 0", c.Count())
	}
	c.inc()
	c.inc()
	if c.Count() != 2 {
		t.Fatalf("count = %d, want 2", c.Count())
	}
}
