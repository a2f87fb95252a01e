package manager

import (
	"sort"

	"streamdvr/pkg/types"
)

// Snapshot returns a read-only view of the shared tables.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{
		Statuses: make(map[string]StatusEntry, len(m.statuses)),
		Captures: make(map[string]CaptureInfo, len(m.captures)),
		Awaiting: make([]string, 0, len(m.awaiting)),
	}
	for k, v := range m.statuses {
		s.Statuses[k] = v
	}
	for k, ac := range m.captures {
		s.Captures[k] = CaptureInfo{
			ID:         ac.handle.ID(),
			PID:        ac.handle.PID(),
			StartedAt:  ac.startedAt,
			OutputPath: ac.handle.OutputPath(),
			Title:      ac.title,
		}
	}
	for k := range m.awaiting {
		s.Awaiting = append(s.Awaiting, k)
	}
	sort.Strings(s.Awaiting)
	return s
}

// StatusSnapshot maps each registered streamer to its state label.
func (m *Manager) StatusSnapshot() map[string]string {
	out := make(map[string]string)
	for _, row := range m.Status().Streamers {
		out[row.Name] = row.Label
	}
	return out
}

// Status builds a detailed status response for /status. Only registered
// streamers are reported.
func (m *Manager) Status() types.StatusResponse {
	entries := m.registry.List()
	cfg := m.settings.Get()
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	resp := types.StatusResponse{
		Streamers:        make([]types.StreamerStatus, 0, len(entries)),
		States:           make(map[string]string, len(entries)),
		ManualModeGlobal: cfg.ManualModeGlobal,
		ActiveCaptures:   len(m.captures),
		Passes:           m.passes.Load(),
		LastPassUnix:     m.lastPass.Load(),
		UptimeSeconds:    int64(now.Sub(m.startTime).Seconds()),
		ServerTimeUnix:   now.Unix(),
	}
	for _, e := range entries {
		if !m.registry.Has(e.Name) {
			continue
		}
		st, ok := m.statuses[e.Name]
		if !ok {
			st = StatusEntry{Streamer: e.Name, State: StateIdle, Label: StateIdle.Label()}
		}
		row := types.StreamerStatus{
			Streamer:    types.Streamer{Name: e.Name, Quality: e.Quality, Format: e.Format, Manual: e.Manual},
			State:       string(st.State),
			Label:       st.Label,
			Detail:      st.Detail,
			LastUpdated: unixOrZero(st.LastUpdated),
		}
		_, row.Awaiting = m.awaiting[e.Name]
		if ac, ok := m.captures[e.Name]; ok {
			row.Capture = &types.CaptureStatus{
				ID:         ac.handle.ID(),
				PID:        ac.handle.PID(),
				StartedAt:  ac.startedAt.Unix(),
				OutputPath: ac.handle.OutputPath(),
				Title:      ac.title,
			}
		}
		resp.Streamers = append(resp.Streamers, row)
		resp.States[e.Name] = st.Label
	}
	return resp
}
