package manager

import (
	"context"
	"time"
)

// Run drives reconciliation passes until ctx is done. The first pass runs
// immediately; later passes wait for the configured poll interval or a Kick.
func (m *Manager) Run(ctx context.Context) error {
	m.started.Store(true)
	m.log.Info().Msg("supervisor started")
	defer m.log.Info().Msg("supervisor stopped")
	for {
		m.ReconcileOnce(ctx)
		t := time.NewTimer(m.settings.Get().PollInterval())
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-m.wake:
			t.Stop()
		case <-t.C:
		}
	}
}

// Close terminates every active capture, waits up to the shutdown grace for
// them to exit and kills the rest. Passes after Close launch nothing.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	live := make([]*activeCapture, 0, len(m.captures))
	for name, ac := range m.captures {
		m.dropCaptureLocked(name, ac, finishStopped)
		m.setStatusLocked(name, StateStopped, "")
		live = append(live, ac)
	}
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, m.shutdownGrace)
	defer cancel()
	for _, ac := range live {
		select {
		case <-ac.handle.Done():
		case <-ctx.Done():
			m.log.Warn().Str("streamer", ac.streamer).Int("pid", ac.handle.PID()).Msg("capture did not exit, killing")
			_ = ac.handle.Kill()
		}
	}
	return nil
}
