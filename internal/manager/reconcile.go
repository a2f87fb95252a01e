package manager

import (
	"context"
	"fmt"
	"time"

	"streamdvr/internal/registry"
	"streamdvr/internal/settings"
)

// ReconcileOnce runs one reconciliation pass over every registered streamer.
// A fault while handling one streamer is recovered and does not affect the
// others.
func (m *Manager) ReconcileOnce(ctx context.Context) {
	start := time.Now()
	m.prune()
	cfg := m.settings.Get()
	for _, e := range m.registry.List() {
		if ctx.Err() != nil {
			return
		}
		m.reconcileStreamer(ctx, e, cfg)
	}
	m.passes.Add(1)
	m.lastPass.Store(m.now().Unix())
	passDuration.Observe(time.Since(start).Seconds())
}

// prune drops state for names that left the registry outside of
// RemoveStreamer, e.g. through an edit of the streamers file.
func (m *Manager) prune() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, ac := range m.captures {
		if !m.registry.Has(name) {
			m.dropCaptureLocked(name, ac, finishRemoved)
		}
	}
	for name := range m.statuses {
		if !m.registry.Has(name) {
			m.clearLocked(name)
		}
	}
	for name := range m.awaiting {
		if !m.registry.Has(name) {
			m.clearLocked(name)
		}
	}
}

func (m *Manager) reconcileStreamer(ctx context.Context, e registry.Entry, cfg settings.GlobalConfig) {
	name := e.Name
	defer func() {
		if r := recover(); r != nil {
			streamerPanicsTotal.Inc()
			m.log.Error().Str("event", EventStreamerPanic).Str("streamer", name).
				Str("panic", fmt.Sprint(r)).Msg("reconcile: recovered panic")
			m.publish(EventStreamerPanic, name, map[string]any{"panic": fmt.Sprint(r)})
		}
	}()

	m.mu.Lock()
	if !m.registry.Has(name) {
		m.mu.Unlock()
		return
	}
	if ac, ok := m.captures[name]; ok {
		if ac.handle.Running() {
			m.setStatusLocked(name, StateRecording, "")
		} else {
			m.finishLocked(name, ac)
		}
		m.mu.Unlock()
		return
	}
	if _, ok := m.launching[name]; ok {
		m.mu.Unlock()
		return
	}
	_, wasAwaiting := m.awaiting[name]
	if wasAwaiting && !m.recheckAwaiting {
		m.setLabeledLocked(name, StateAwaitingUser, labelWaitingUser, "")
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	md, live := m.prober.Probe(ctx, name)
	if live {
		probesTotal.WithLabelValues("live").Inc()
	} else {
		probesTotal.WithLabelValues("not_live").Inc()
	}

	m.mu.Lock()
	// The lock was released for the probe; commands may have changed things.
	cur, ok := m.registry.Get(name)
	_, launching := m.launching[name]
	if !ok || launching || m.captures[name] != nil || m.closed {
		m.mu.Unlock()
		return
	}
	_, awaiting := m.awaiting[name]
	if !live {
		if awaiting {
			if !m.recheckAwaiting {
				// the user confirmed or a pass re-gated it meanwhile
				m.mu.Unlock()
				return
			}
			delete(m.awaiting, name)
			awaitingGauge.Set(float64(len(m.awaiting)))
		}
		m.setStatusLocked(name, StateOffline, "")
		m.mu.Unlock()
		return
	}

	m.publish(EventProbeLive, name, map[string]any{"title": md.Title})
	if cur.Manual || m.settings.Get().ManualModeGlobal {
		m.awaiting[name] = struct{}{}
		awaitingGauge.Set(float64(len(m.awaiting)))
		if awaiting {
			m.setLabeledLocked(name, StateAwaitingUser, labelWaitingUser, "")
		} else {
			m.setStatusLocked(name, StateAwaitingUser, "")
		}
		m.mu.Unlock()
		if !awaiting {
			m.log.Info().Str("event", EventAwaiting).Str("streamer", name).Str("title", md.Title).Msg("live, waiting for confirmation")
			m.publish(EventAwaiting, name, map[string]any{"title": md.Title})
			m.notifier.Notify(name+" Live", md.Title)
		}
		return
	}

	if awaiting {
		delete(m.awaiting, name)
		awaitingGauge.Set(float64(len(m.awaiting)))
	}
	token := m.reserveLocked(name)
	m.mu.Unlock()
	_ = m.launch(cur, cfg, md.Title, token)
}

// finishLocked observes a capture that exited on its own. Caller holds m.mu.
func (m *Manager) finishLocked(name string, ac *activeCapture) {
	delete(m.captures, name)
	activeCapturesGauge.Set(float64(len(m.captures)))
	capturesFinishedTotal.WithLabelValues(finishExited).Inc()
	m.setStatusLocked(name, StateFinished, "")
	fields := map[string]any{"output": ac.handle.OutputPath(), "duration_s": int64(m.now().Sub(ac.startedAt).Seconds())}
	if err := ac.handle.ExitErr(); err != nil {
		fields["exit"] = err.Error()
	}
	m.log.Info().Str("event", EventCaptureFinished).Str("streamer", name).Str("output", ac.handle.OutputPath()).Msg("capture finished")
	m.publish(EventCaptureFinished, name, fields)
}

// dropCaptureLocked terminates a capture and forgets it. Termination is
// fire-and-forget. Caller holds m.mu.
func (m *Manager) dropCaptureLocked(name string, ac *activeCapture, reason string) {
	if err := ac.handle.Terminate(); err != nil {
		m.log.Warn().Err(err).Str("streamer", name).Int("pid", ac.handle.PID()).Msg("terminate capture")
	}
	delete(m.captures, name)
	activeCapturesGauge.Set(float64(len(m.captures)))
	capturesFinishedTotal.WithLabelValues(reason).Inc()
	m.log.Info().Str("event", EventCaptureStop).Str("streamer", name).Str("reason", reason).Msg("capture terminated")
	m.publish(EventCaptureStop, name, map[string]any{"reason": reason, "output": ac.handle.OutputPath()})
}
