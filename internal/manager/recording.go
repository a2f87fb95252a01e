package manager

import (
	"fmt"

	"streamdvr/internal/capture"
	"streamdvr/internal/probe"
	"streamdvr/internal/registry"
	"streamdvr/internal/settings"
)

// reserveLocked claims the single-flight slot for name, marks it Starting
// and returns the reservation token. Caller holds m.mu and has checked that
// no capture or reservation exists.
func (m *Manager) reserveLocked(name string) uint64 {
	m.launchSeq++
	m.launching[name] = m.launchSeq
	m.setStatusLocked(name, StateStarting, "")
	return m.launchSeq
}

// releaseLocked frees the slot of name if token still owns it. A removal
// (or a newer reservation) takes ownership away. Caller holds m.mu.
func (m *Manager) releaseLocked(name string, token uint64) bool {
	if cur, ok := m.launching[name]; !ok || cur != token {
		return false
	}
	delete(m.launching, name)
	return true
}

// abandonOnPanic is deferred by every holder of a reservation. On a panic it
// frees the slot and marks the streamer Error so the next pass starts over.
// With errp set the panic becomes that error; otherwise it is re-raised for
// the per-streamer recover in reconcileStreamer.
func (m *Manager) abandonOnPanic(name string, token uint64, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	detail := fmt.Sprintf("panic: %v", r)
	m.mu.Lock()
	if m.releaseLocked(name, token) && m.registry.Has(name) {
		m.setStatusLocked(name, StateError, detail)
	}
	m.mu.Unlock()
	if errp == nil {
		panic(r)
	}
	captureFailuresTotal.Inc()
	m.log.Error().Str("event", EventStreamerPanic).Str("streamer", name).Str("panic", fmt.Sprint(r)).Msg("start recording panicked")
	m.publish(EventStreamerPanic, name, map[string]any{"panic": fmt.Sprint(r)})
	*errp = fmt.Errorf("start recording %s: %s", name, detail)
}

// launch is the start-recording action shared by the tick loop and the
// manual trigger. The caller must hold reservation token for e.Name; launch
// runs without m.mu and releases the reservation on every path. The capture
// is committed only while token still owns the slot.
func (m *Manager) launch(e registry.Entry, cfg settings.GlobalConfig, title string, token uint64) error {
	name := e.Name
	defer m.abandonOnPanic(name, token, nil)
	filename := capture.RenderFilename(cfg.FilenameFormat, name, title, m.now())
	h, err := m.spawn(e, cfg, filename)

	m.mu.Lock()
	owned := m.releaseLocked(name, token)
	if err != nil {
		if owned && m.registry.Has(name) {
			m.setStatusLocked(name, StateError, err.Error())
		}
		m.mu.Unlock()
		captureFailuresTotal.Inc()
		m.log.Error().Err(err).Str("event", EventCaptureError).Str("streamer", name).Msg("start recording failed")
		m.publish(EventCaptureError, name, map[string]any{"error": err.Error()})
		return err
	}
	if !owned || !m.registry.Has(name) || m.closed {
		// removed, re-added or shutting down while the process was starting
		m.mu.Unlock()
		_ = h.Terminate()
		capturesFinishedTotal.WithLabelValues(finishRemoved).Inc()
		m.log.Info().Str("event", EventCaptureStop).Str("streamer", name).Msg("capture discarded after removal")
		return nil
	}
	m.captures[name] = &activeCapture{streamer: name, handle: h, startedAt: h.StartedAt(), title: title}
	activeCapturesGauge.Set(float64(len(m.captures)))
	m.setStatusLocked(name, StateStarting, "")
	m.mu.Unlock()

	capturesStartedTotal.Inc()
	m.log.Info().Str("event", EventCaptureStart).Str("streamer", name).Int("pid", h.PID()).
		Str("output", h.OutputPath()).Str("quality", e.Quality).Msg("recording started")
	m.publish(EventCaptureStart, name, map[string]any{"output": h.OutputPath(), "title": title, "id": h.ID()})
	m.notifier.Notify("Recording "+name, filename)
	return nil
}

func (m *Manager) spawn(e registry.Entry, cfg settings.GlobalConfig, filename string) (capture.Handle, error) {
	out, err := capture.OutputPath(cfg.OutputRoot(), e.Name, filename, e.Format)
	if err != nil {
		return nil, &capture.LaunchError{Streamer: e.Name, Err: err}
	}
	return m.launcher.Start(capture.Request{
		Streamer:   e.Name,
		URL:        probe.StreamURL(m.urlTmpl, e.Name),
		Quality:    e.Quality,
		OutputPath: out,
	})
}
