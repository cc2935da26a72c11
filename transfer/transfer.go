// Package transfer implements chunked transfer of large message
// bodies (images, video) with resume and progress tracking, on top of
// a state machine mirroring original_source's PartialTransferManager.
package transfer

import (
	"errors"
	"sync"
	"time"

	"openigtl/telemetry"
)

// ErrNotFound is returned when an operation references an unknown
// transfer ID.
var ErrNotFound = errors.New("transfer: not found")

// ErrInvalidState is returned when an operation isn't valid for the
// transfer's current state (e.g. resuming a transfer that isn't
// interrupted).
var ErrInvalidState = errors.New("transfer: invalid state for operation")

// ID identifies one transfer session. IDs are monotonic and never
// reused within a Manager's lifetime.
type ID uint64

// Config mirrors original_source's TransferConfig.
type Config struct {
	ChunkSize   int
	AllowResume bool
	Timeout     time.Duration // zero means no timeout
}

// DefaultConfig matches the reference implementation's defaults: 64KB
// chunks, resume allowed, 5-minute idle timeout.
func DefaultConfig() Config {
	return Config{ChunkSize: 64 * 1024, AllowResume: true, Timeout: 5 * time.Minute}
}

// Phase identifies which branch of State is populated. A plain Go enum
// stands in for the Rust enum's discriminant, since the state's
// payload fields differ per phase below.
type Phase int

const (
	PhaseInProgress Phase = iota
	PhaseCompleted
	PhaseInterrupted
	PhaseFailed
)

// State is the tagged union describing a transfer's current phase.
// Only the fields relevant to Phase are meaningful; this mirrors the
// reference TransferState enum's per-variant payload without Go having
// a native sum type.
type State struct {
	Phase             Phase
	BytesTransferred  int
	TotalBytes        int
	ChunkIndex        int
	Resumable         bool
	Err               string
}

// Progress returns the fraction (0.0-1.0) of the transfer completed.
func (s State) Progress() float64 {
	switch s.Phase {
	case PhaseCompleted:
		return 1.0
	case PhaseInProgress, PhaseInterrupted:
		if s.TotalBytes == 0 {
			return 0
		}
		return float64(s.BytesTransferred) / float64(s.TotalBytes)
	default:
		return 0
	}
}

// IsComplete reports whether the transfer finished successfully.
func (s State) IsComplete() bool { return s.Phase == PhaseCompleted }

// IsResumable reports whether the transfer is interrupted and eligible
// to resume.
func (s State) IsResumable() bool { return s.Phase == PhaseInterrupted && s.Resumable }

// Info is a snapshot of one transfer's full bookkeeping: state plus
// timing, matching original_source's TransferInfo.
type Info struct {
	ID        ID
	State     State
	Config    Config
	StartedAt time.Time
	UpdatedAt time.Time
}

// Elapsed returns time since the transfer started.
func (i Info) Elapsed() time.Duration { return time.Since(i.StartedAt) }

// IdleTime returns time since the last progress update.
func (i Info) IdleTime() time.Duration { return time.Since(i.UpdatedAt) }

// SpeedBytesPerSec estimates throughput from bytes moved so far over
// elapsed wall-clock time.
func (i Info) SpeedBytesPerSec() float64 {
	elapsed := i.Elapsed().Seconds()
	if elapsed <= 0 {
		return 0
	}
	switch i.State.Phase {
	case PhaseInProgress, PhaseInterrupted:
		return float64(i.State.BytesTransferred) / elapsed
	case PhaseCompleted:
		return float64(i.State.TotalBytes) / elapsed
	default:
		return 0
	}
}

// Manager tracks concurrent partial transfers behind one mutex,
// grounded on original_source's PartialTransferManager (a
// Mutex<HashMap<TransferId, TransferInfo>>) and shaped after
// mini-rpc/client/client.go's guarded registry
// (transports map[string][]*transport.ClientTransport under c.mu).
type Manager struct {
	cfg Config

	mu        sync.Mutex
	transfers map[ID]*Info
	nextID    uint64
}

// NewManager builds a Manager with cfg applied to every transfer it
// starts.
func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg, transfers: make(map[ID]*Info)}
}

// Start begins a new transfer of totalBytes and returns its ID.
func (m *Manager) Start(totalBytes int) ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := ID(m.nextID)
	now := time.Now()
	m.transfers[id] = &Info{
		ID:        id,
		State:     State{Phase: PhaseInProgress, TotalBytes: totalBytes},
		Config:    m.cfg,
		StartedAt: now,
		UpdatedAt: now,
	}
	telemetry.TransferActiveCount.Inc()
	return id
}

// Update records progress for an in-progress transfer.
func (m *Manager) Update(id ID, bytesTransferred, chunkIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.transfers[id]
	if !ok {
		return ErrNotFound
	}
	if info.State.Phase != PhaseInProgress {
		return ErrInvalidState
	}
	info.State.BytesTransferred = bytesTransferred
	info.State.ChunkIndex = chunkIndex
	info.UpdatedAt = time.Now()
	return nil
}

// Interrupt marks an in-progress transfer as interrupted, resumable
// according to its configured AllowResume.
func (m *Manager) Interrupt(id ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.transfers[id]
	if !ok {
		return ErrNotFound
	}
	if info.State.Phase != PhaseInProgress {
		return ErrInvalidState
	}
	info.State = State{
		Phase:            PhaseInterrupted,
		BytesTransferred: info.State.BytesTransferred,
		TotalBytes:       info.State.TotalBytes,
		Resumable:        info.Config.AllowResume,
	}
	info.UpdatedAt = time.Now()
	telemetry.TransferActiveCount.Dec()
	return nil
}

// Resume restarts an interrupted, resumable transfer from its last
// recorded byte offset, returning that offset.
func (m *Manager) Resume(id ID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.transfers[id]
	if !ok {
		return 0, ErrNotFound
	}
	if info.State.Phase != PhaseInterrupted || !info.State.Resumable {
		return 0, ErrInvalidState
	}
	offset := info.State.BytesTransferred
	chunkIndex := 0
	if info.Config.ChunkSize > 0 {
		chunkIndex = offset / info.Config.ChunkSize
	}
	info.State = State{
		Phase:            PhaseInProgress,
		BytesTransferred: offset,
		TotalBytes:       info.State.TotalBytes,
		ChunkIndex:       chunkIndex,
	}
	info.UpdatedAt = time.Now()
	telemetry.TransferActiveCount.Inc()
	return offset, nil
}

// Complete marks an in-progress transfer as finished. For a transfer in
// any other phase it changes nothing and returns nil.
func (m *Manager) Complete(id ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.transfers[id]
	if !ok {
		return ErrNotFound
	}
	if info.State.Phase == PhaseInProgress {
		info.State = State{Phase: PhaseCompleted, TotalBytes: info.State.TotalBytes}
		info.UpdatedAt = time.Now()
		telemetry.TransferActiveCount.Dec()
		telemetry.TransferBytesTotal.Add(float64(info.State.TotalBytes))
	}
	return nil
}

// Fail marks a transfer as failed with the given error message.
func (m *Manager) Fail(id ID, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.transfers[id]
	if !ok {
		return ErrNotFound
	}
	if info.State.Phase == PhaseInProgress {
		telemetry.TransferActiveCount.Dec()
	}
	info.State = State{Phase: PhaseFailed, Err: errMsg}
	info.UpdatedAt = time.Now()
	return nil
}

// Get returns a snapshot of one transfer's Info.
func (m *Manager) Get(id ID) (Info, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.transfers[id]
	if !ok {
		return Info{}, false
	}
	return *info, true
}

// ActiveTransfers returns a snapshot of every transfer currently
// in progress.
func (m *Manager) ActiveTransfers() []Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Info
	for _, info := range m.transfers {
		if info.State.Phase == PhaseInProgress {
			out = append(out, *info)
		}
	}
	return out
}

// CleanupCompleted removes every completed or failed transfer.
func (m *Manager) CleanupCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, info := range m.transfers {
		if info.State.Phase == PhaseCompleted || info.State.Phase == PhaseFailed {
			delete(m.transfers, id)
		}
	}
}

// CleanupTimedOut removes every transfer whose idle time exceeds its
// configured timeout. A zero Timeout disables this for that transfer.
func (m *Manager) CleanupTimedOut() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, info := range m.transfers {
		if info.Config.Timeout > 0 && time.Since(info.UpdatedAt) >= info.Config.Timeout {
			delete(m.transfers, id)
			removed++
		}
	}
	return removed
}
