package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamdvr/internal/capture"
	"streamdvr/internal/manager"
	"streamdvr/internal/probe"
	"streamdvr/internal/registry"
	"streamdvr/internal/settings"
	"streamdvr/pkg/types"
)

// mockService is a configurable Service. Errors are returned verbatim.
type mockService struct {
	mu      sync.Mutex
	ready   bool
	entries []registry.Entry
	cfg     settings.GlobalConfig
	err     error
	qual    probe.QualityList
	recs    []types.Recording
	events  []manager.Event
	calls   []string
	patched settings.Patch
}

func (m *mockService) record(call string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	return m.err
}

func (m *mockService) Status() types.StatusResponse {
	return types.StatusResponse{States: map[string]string{"alice": "Recording"}, ActiveCaptures: 1}
}
func (m *mockService) Ready() bool                     { return m.ready }
func (m *mockService) ListStreamers() []registry.Entry { return m.entries }
func (m *mockService) AddStreamer(e registry.Entry) (registry.Entry, error) {
	if err := m.record("add:" + e.Name); err != nil {
		return registry.Entry{}, err
	}
	e.Name = strings.ToLower(strings.TrimSpace(e.Name))
	if e.Quality == "" {
		e.Quality = "best"
	}
	if e.Format == "" {
		e.Format = "mp4"
	}
	return e, nil
}
func (m *mockService) RemoveStreamer(name string) error { return m.record("remove:" + name) }
func (m *mockService) StopCapture(name string) error    { return m.record("stop:" + name) }
func (m *mockService) TriggerManualRecording(ctx context.Context, name string) error {
	return m.record("record:" + name)
}
func (m *mockService) ListQualities(ctx context.Context, name string) (probe.QualityList, error) {
	return m.qual, m.record("qualities:" + name)
}
func (m *mockService) GetConfig() settings.GlobalConfig { return m.cfg }
func (m *mockService) SetConfig(p settings.Patch) (settings.GlobalConfig, error) {
	m.patched = p
	if err := m.record("config"); err != nil {
		return m.cfg, err
	}
	return m.cfg.Apply(p), nil
}
func (m *mockService) OpenOutputLocation() error { return m.record("open-folder") }
func (m *mockService) OpenFile(rel string) error { return m.record("open-file:" + rel) }
func (m *mockService) ListRecordings() ([]types.Recording, error) {
	return m.recs, m.record("recordings")
}
func (m *mockService) Events() []manager.Event { return m.events }

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var e types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func TestStatusHandler(t *testing.T) {
	rec := do(t, NewMux(&mockService{}), http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var s types.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, "Recording", s.States["alice"])
	assert.Equal(t, 1, s.ActiveCaptures)
}

func TestListStreamers(t *testing.T) {
	svc := &mockService{entries: []registry.Entry{{Name: "alice", Quality: "best", Format: "mp4"}}}
	rec := do(t, NewMux(svc), http.MethodGet, "/streamers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.StreamersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Streamers, 1)
	assert.Equal(t, "alice", resp.Streamers[0].Name)
}

func TestAddStreamer(t *testing.T) {
	svc := &mockService{}
	rec := do(t, NewMux(svc), http.MethodPost, "/streamers", `{"name":" Alice ","manual":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var s types.Streamer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, types.Streamer{Name: "alice", Quality: "best", Format: "mp4", Manual: true}, s)
}

func TestAddStreamerBadJSON(t *testing.T) {
	rec := do(t, NewMux(&mockService{}), http.MethodPost, "/streamers", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusBadRequest, decodeErr(t, rec).Code)
}

func TestAddStreamerUnsupportedMediaType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/streamers", bytes.NewBufferString(`{"name":"a"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestContentTypeCaseInsensitive(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/streamers", bytes.NewBufferString(`{"name":"a"}`))
	req.Header.Set("Content-Type", "Application/JSON; charset=utf-8")
	rec := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestBodyTooLarge(t *testing.T) {
	SetMaxBodyBytes(16)
	defer SetMaxBodyBytes(0)
	rec := do(t, NewMux(&mockService{}), http.MethodPost, "/streamers", `{"name":"`+strings.Repeat("a", 64)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCommandsRouteToService(t *testing.T) {
	svc := &mockService{}
	h := NewMux(svc)
	for _, c := range []struct{ method, path, body string }{
		{http.MethodDelete, "/streamers/alice", ""},
		{http.MethodPost, "/streamers/alice/stop", ""},
		{http.MethodPost, "/streamers/alice/record", ""},
		{http.MethodPost, "/open/folder", ""},
		{http.MethodPost, "/open/file", `{"filename":"alice/a.mp4"}`},
	} {
		rec := do(t, h, c.method, c.path, c.body)
		require.Equal(t, http.StatusOK, rec.Code, c.path)
		var ok types.OKResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
		assert.Equal(t, "success", ok.Status)
	}
	assert.Equal(t, []string{"remove:alice", "stop:alice", "record:alice", "open-folder", "open-file:alice/a.mp4"}, svc.calls)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", manager.ErrNotFound("alice"), http.StatusNotFound},
		{"launch", &capture.LaunchError{Streamer: "alice", Err: assert.AnError}, http.StatusBadGateway},
		{"generic", assert.AnError, http.StatusInternalServerError},
		{"http error", statusErr{code: http.StatusTeapot}, http.StatusTeapot},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := do(t, NewMux(&mockService{err: c.err}), http.MethodPost, "/streamers/alice/record", "")
			assert.Equal(t, c.want, rec.Code)
			e := decodeErr(t, rec)
			assert.Equal(t, c.want, e.Code)
			assert.Equal(t, c.err.Error(), e.Error)
		})
	}
}

type statusErr struct{ code int }

func (e statusErr) Error() string   { return "custom" }
func (e statusErr) StatusCode() int { return e.code }

func TestQualities(t *testing.T) {
	svc := &mockService{qual: probe.QualityList{Status: probe.Online, Qualities: []string{"best", "720p60", "worst"}}}
	rec := do(t, NewMux(svc), http.MethodGet, "/streamers/alice/qualities", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var q types.QualitiesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, "online", q.Status)
	assert.Equal(t, []string{"best", "720p60", "worst"}, q.Qualities)
}

func TestQualitiesOfflineAndError(t *testing.T) {
	svc := &mockService{qual: probe.QualityList{Status: probe.Offline}}
	rec := do(t, NewMux(svc), http.MethodGet, "/streamers/alice/qualities", "")
	var q types.QualitiesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, "offline", q.Status)
	assert.Empty(t, q.Qualities)

	svc = &mockService{err: &probe.Error{Msg: "CLI failed: exit status 1"}}
	rec = do(t, NewMux(svc), http.MethodGet, "/streamers/alice/qualities", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, "error", q.Status)
	assert.Equal(t, "CLI failed: exit status 1", q.Message)
}

func TestConfigGetAndPatch(t *testing.T) {
	svc := &mockService{cfg: settings.Defaults()}
	h := NewMux(svc)

	rec := do(t, h, http.MethodGet, "/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var s types.Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, 60, s.CheckInterval)
	assert.Equal(t, "{date} - {title}", s.FilenameFormat)

	rec = do(t, h, http.MethodPatch, "/config", `{"check_interval":30,"manual_mode_global":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, 30, s.CheckInterval)
	assert.True(t, s.ManualModeGlobal)
	assert.Nil(t, svc.patched.Theme, "omitted fields stay unset")
}

func TestRecordingsAndEvents(t *testing.T) {
	svc := &mockService{
		recs:   []types.Recording{{Path: "alice/a.mp4", Size: 4}},
		events: []manager.Event{{Name: manager.EventCaptureStart, Streamer: "alice"}},
	}
	h := NewMux(svc)

	rec := do(t, h, http.MethodGet, "/recordings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rr types.RecordingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rr))
	assert.Equal(t, svc.recs, rr.Recordings)

	rec = do(t, h, http.MethodGet, "/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var er types.EventsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
	require.Len(t, er.Events, 1)
	assert.Equal(t, "capture_start", er.Events[0].Name)
}

func TestHealthz(t *testing.T) {
	rec := do(t, NewMux(&mockService{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestReadyz(t *testing.T) {
	assert.Equal(t, http.StatusOK, do(t, NewMux(&mockService{ready: true}), http.MethodGet, "/readyz", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, NewMux(&mockService{}), http.MethodGet, "/readyz", "").Code)
}

func TestCORSAndSecurityHeaders(t *testing.T) {
	SetCORSOptions(true, []string{"*"}, nil, nil)
	defer SetCORSOptions(false, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
