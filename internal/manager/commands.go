package manager

import (
	"context"
	"errors"
	"fmt"
	"os"

	"streamdvr/internal/common/fsutil"
	"streamdvr/internal/probe"
	"streamdvr/internal/registry"
	"streamdvr/internal/settings"
)

// manualTitle names recordings started by hand when the re-probe has no title.
const manualTitle = "Manual"

// AddStreamer registers e (or replaces its preferences). The name is trimmed
// and lower-cased; quality and format default to best and mp4.
func (m *Manager) AddStreamer(e registry.Entry) (registry.Entry, error) {
	e.Name = registry.NormalizeName(e.Name)
	if e.Name == "" {
		return registry.Entry{}, errInvalid("streamer name is required")
	}
	m.mu.Lock()
	existed := m.registry.Has(e.Name)
	saved, err := m.registry.Put(e)
	if err != nil {
		m.mu.Unlock()
		if errors.Is(err, registry.ErrEmptyName) {
			return registry.Entry{}, errInvalid("%v", err)
		}
		return registry.Entry{}, fmt.Errorf("save streamer %s: %w", e.Name, err)
	}
	if !existed {
		m.setStatusLocked(saved.Name, StateIdle, "")
	}
	m.mu.Unlock()

	m.log.Info().Str("event", EventStreamerAdded).Str("streamer", saved.Name).Str("quality", saved.Quality).
		Str("format", saved.Format).Bool("manual", saved.Manual).Msg("streamer added")
	m.publish(EventStreamerAdded, saved.Name, map[string]any{"quality": saved.Quality, "format": saved.Format, "manual": saved.Manual})
	m.Kick()
	return saved, nil
}

// RemoveStreamer unregisters name, terminates its capture and forgets its
// status and awaiting membership.
func (m *Manager) RemoveStreamer(name string) error {
	name = registry.NormalizeName(name)
	m.mu.Lock()
	if !m.registry.Has(name) {
		m.mu.Unlock()
		return ErrNotFound(name)
	}
	if _, err := m.registry.Delete(name); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("delete streamer %s: %w", name, err)
	}
	if ac, ok := m.captures[name]; ok {
		m.dropCaptureLocked(name, ac, finishRemoved)
	}
	// an in-flight launch loses its slot and discards its process
	delete(m.launching, name)
	m.clearLocked(name)
	m.mu.Unlock()

	m.log.Info().Str("event", EventStreamerRemoved).Str("streamer", name).Msg("streamer removed")
	m.publish(EventStreamerRemoved, name, nil)
	return nil
}

// StopCapture terminates the active capture of name and marks it Stopped.
// It does not wait for the process to exit. A streamer that is still live
// is picked up again by the next pass.
func (m *Manager) StopCapture(name string) error {
	name = registry.NormalizeName(name)
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.registry.Has(name) {
		return ErrNotFound(name)
	}
	ac, ok := m.captures[name]
	if !ok {
		return notRecordingError{name: name}
	}
	m.dropCaptureLocked(name, ac, finishStopped)
	m.setStatusLocked(name, StateStopped, "")
	return nil
}

// TriggerManualRecording confirms a streamer waiting behind the manual gate
// and starts recording it. The stream is re-probed for its title.
func (m *Manager) TriggerManualRecording(ctx context.Context, name string) (err error) {
	name = registry.NormalizeName(name)
	m.mu.Lock()
	e, ok := m.registry.Get(name)
	if !ok {
		m.mu.Unlock()
		return ErrNotFound(name)
	}
	if _, ok := m.awaiting[name]; !ok {
		m.mu.Unlock()
		return notAwaitingError{name: name}
	}
	_, launching := m.launching[name]
	if m.captures[name] != nil || launching {
		m.mu.Unlock()
		return alreadyActiveError{name: name}
	}
	delete(m.awaiting, name)
	awaitingGauge.Set(float64(len(m.awaiting)))
	token := m.reserveLocked(name)
	m.mu.Unlock()
	defer m.abandonOnPanic(name, token, &err)

	cfg := m.settings.Get()
	title := manualTitle
	if md, live := m.prober.Probe(ctx, name); live && md.Title != "" && md.Title != probe.DefaultTitle {
		title = md.Title
	}
	m.log.Info().Str("streamer", name).Str("title", title).Msg("manual recording confirmed")
	return m.launch(e, cfg, title, token)
}

// ListQualities delegates to the prober; it has no side effects.
func (m *Manager) ListQualities(ctx context.Context, name string) (probe.QualityList, error) {
	name = registry.NormalizeName(name)
	if name == "" {
		return probe.QualityList{}, errInvalid("streamer name is required")
	}
	return m.prober.ListQualities(ctx, name)
}

// ListStreamers returns the registry, sorted by name.
func (m *Manager) ListStreamers() []registry.Entry { return m.registry.List() }

// GetConfig returns the current global settings.
func (m *Manager) GetConfig() settings.GlobalConfig { return m.settings.Get() }

// SetConfig applies a partial settings update. A shorter poll interval takes
// effect immediately.
func (m *Manager) SetConfig(p settings.Patch) (settings.GlobalConfig, error) {
	g, err := m.settings.Update(p)
	if err != nil {
		if errors.Is(err, settings.ErrInvalid) {
			return g, errInvalid("%v", err)
		}
		return g, err
	}
	m.Kick()
	return g, nil
}

// OpenOutputLocation opens the output root with the OS opener.
func (m *Manager) OpenOutputLocation() error {
	root := m.settings.Get().OutputRoot()
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return m.opener.Open(root)
}

// OpenFile opens a file below the output root. Paths leaving the root are
// rejected.
func (m *Manager) OpenFile(rel string) error {
	if rel == "" {
		return errInvalid("filename is required")
	}
	p, err := fsutil.JoinUnder(m.settings.Get().OutputRoot(), rel)
	if err != nil {
		return errInvalid("%s: %v", rel, err)
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound(rel)
		}
		return fmt.Errorf("stat %s: %w", rel, err)
	}
	return m.opener.Open(p)
}
