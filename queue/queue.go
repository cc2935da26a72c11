// Package queue implements a bounded or unbounded FIFO of raw frame
// bytes for buffering inbound or outbound OpenIGTLink messages under
// backpressure.
package queue

import (
	"errors"
	"sync"

	"openigtl/telemetry"
)

// ErrClosed is returned by Enqueue/Dequeue once the queue has been
// closed.
var ErrClosed = errors.New("queue: closed")

// ErrFull is returned by Enqueue on a bounded, non-dropping queue that
// has reached capacity.
var ErrFull = errors.New("queue: full")

// ErrEmpty is returned by TryDequeue when nothing is available.
var ErrEmpty = errors.New("queue: empty")

// Config mirrors original_source's QueueConfig: an optional capacity
// and a drop-oldest-on-full policy.
type Config struct {
	Capacity   int  // 0 means unbounded
	DropOnFull bool // drop the oldest buffered message instead of blocking/rejecting
}

// Default is a bounded queue of 1000 messages that rejects (Enqueue
// returns ErrFull) rather than dropping, matching the reference
// implementation's default.
func Default() Config { return Config{Capacity: 1000} }

// Unbounded returns a Config with no capacity limit.
func Unbounded() Config { return Config{} }

// Bounded returns a Config that rejects Enqueue once full.
func Bounded(capacity int) Config { return Config{Capacity: capacity} }

// BoundedDropOldest returns a Config that silently drops the oldest
// buffered message to make room for a new one once full.
func BoundedDropOldest(capacity int) Config { return Config{Capacity: capacity, DropOnFull: true} }

// Stats reports queue activity, matching original_source's QueueStats
// one-for-one (enqueued/dequeued/dropped counters, current/peak size).
type Stats struct {
	Enqueued    uint64
	Dequeued    uint64
	Dropped     uint64
	CurrentSize int
	PeakSize    int
}

// Queue is a FIFO of raw frame bytes. It is implemented with a
// mutex/condition-variable-guarded slice rather than a channel: Go
// channels have no way to evict the oldest buffered element without
// first draining it through a consumer, which rules them out for the
// drop-oldest policy Config.DropOnFull requires. mini-rpc's
// transport/pool.go uses a channel as a plain FIFO (ConnPool), which
// works for its "block until a slot frees up" use but can't express
// "evict and replace", hence the different primitive here.
type Queue struct {
	name string
	cfg  Config

	mu     sync.Mutex
	cond   *sync.Cond
	items  [][]byte
	closed bool
	stats  Stats
}

// New builds a Queue with the given configuration. name labels the
// queue in telemetry (telemetry.QueueDepth/QueuePeakDepth/QueueDroppedTotal
// are all keyed by it); pass "" if a queue's metrics aren't of interest.
func New(name string, cfg Config) *Queue {
	q := &Queue{name: name, cfg: cfg}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// observeLocked publishes the queue's current stats to telemetry.
// Callers must hold q.mu. droppedDelta is the number of items dropped
// by this call only, not the running total.
func (q *Queue) observeLocked(droppedDelta uint64) {
	telemetry.ObserveQueueStats(q.name, len(q.items), q.stats.PeakSize, droppedDelta)
}

// Enqueue adds data to the back of the queue. On a bounded queue at
// capacity: if cfg.DropOnFull is set, the oldest item is evicted to
// make room; otherwise ErrFull is returned immediately (Enqueue never
// blocks — blocking writers belong on the bounded, non-dropping
// variant only if they choose to retry).
func (q *Queue) Enqueue(data []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	var dropped uint64
	if q.cfg.Capacity > 0 && len(q.items) >= q.cfg.Capacity {
		if !q.cfg.DropOnFull {
			return ErrFull
		}
		q.items = q.items[1:]
		q.stats.Dropped++
		dropped = 1
	}

	q.items = append(q.items, data)
	q.stats.Enqueued++
	if len(q.items) > q.stats.PeakSize {
		q.stats.PeakSize = len(q.items)
	}
	q.observeLocked(dropped)
	q.cond.Signal()
	return nil
}

// Dequeue blocks until an item is available or the queue is closed.
func (q *Queue) Dequeue() ([]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return nil, ErrClosed
	}
	return q.popLocked(), nil
}

// TryDequeue returns immediately: ErrEmpty if nothing is buffered,
// ErrClosed if the queue has been closed and drained.
func (q *Queue) TryDequeue() ([]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		if q.closed {
			return nil, ErrClosed
		}
		return nil, ErrEmpty
	}
	return q.popLocked(), nil
}

func (q *Queue) popLocked() []byte {
	item := q.items[0]
	q.items = q.items[1:]
	q.stats.Dequeued++
	q.observeLocked(0)
	return item
}

// Size returns the current buffered item count.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// IsEmpty reports whether the queue currently has no buffered items.
func (q *Queue) IsEmpty() bool { return q.Size() == 0 }

// Stats returns a snapshot of the queue's activity counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	s := q.stats
	s.CurrentSize = len(q.items)
	return s
}

// Close marks the queue closed and wakes any blocked Dequeue callers.
// Already-buffered items can still be drained after Close; Dequeue
// only returns ErrClosed once the buffer is empty.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
}
