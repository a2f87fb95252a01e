package manager

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"streamdvr/internal/notify"
)

// Manager supervises every registered streamer: it probes, gates, launches
// and tracks capture processes, and serves the control commands.
type Manager struct {
	mu       sync.Mutex
	statuses map[string]StatusEntry
	captures map[string]*activeCapture
	// launching holds single-flight reservations for starts in progress,
	// keyed to the token of the reservation that owns the slot.
	launching map[string]uint64
	launchSeq uint64
	awaiting  map[string]struct{}
	closed    bool

	registry Registry
	settings SettingsProvider
	prober   Prober
	launcher Launcher
	notifier notify.Notifier
	opener   notify.Opener
	pub      EventPublisher
	log      zerolog.Logger

	urlTmpl         string
	recheckAwaiting bool
	shutdownGrace   time.Duration
	now             func() time.Time

	wake      chan struct{}
	started   atomic.Bool
	passes    atomic.Uint64
	lastPass  atomic.Int64
	startTime time.Time
}

// Ready reports whether the tick loop has started.
func (m *Manager) Ready() bool { return m.started.Load() }

// Kick requests an early reconciliation pass. It never blocks.
func (m *Manager) Kick() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Awaiting reports whether name is live and waiting for confirmation.
func (m *Manager) Awaiting(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.awaiting[name]
	return ok
}

// Events returns the retained lifecycle events when the publisher keeps them.
func (m *Manager) Events() []Event {
	if mp, ok := m.pub.(interface{ Events() []Event }); ok {
		return mp.Events()
	}
	return nil
}

func (m *Manager) publish(name, streamer string, fields map[string]any) {
	m.pub.Publish(Event{Name: name, Streamer: streamer, Time: m.now(), Fields: fields})
}

// setStatusLocked records a state change. Caller holds m.mu.
func (m *Manager) setStatusLocked(name string, st State, detail string) {
	m.setLabeledLocked(name, st, st.Label(), detail)
}

func (m *Manager) setLabeledLocked(name string, st State, label, detail string) {
	prev, ok := m.statuses[name]
	if ok && prev.State == st && prev.Label == label && prev.Detail == detail {
		return
	}
	m.statuses[name] = StatusEntry{Streamer: name, State: st, Label: label, LastUpdated: m.now(), Detail: detail}
	if ok && prev.State != st {
		m.log.Debug().Str("streamer", name).Str("from", string(prev.State)).Str("to", string(st)).Msg("state change")
	}
}

// clearLocked removes every piece of per-streamer state except a running
// capture, which the caller must dispose of. Caller holds m.mu.
func (m *Manager) clearLocked(name string) {
	delete(m.statuses, name)
	delete(m.awaiting, name)
	awaitingGauge.Set(float64(len(m.awaiting)))
}
