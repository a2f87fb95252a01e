package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"

	"streamdvr/internal/capture"
	"streamdvr/internal/httpapi"
	"streamdvr/internal/manager"
	"streamdvr/internal/notify"
	"streamdvr/internal/probe"
	"streamdvr/internal/registry"
	"streamdvr/internal/settings"
	"streamdvr/pkg/types"
)

// fakeToolScript stands in for streamlink. A streamer is live while
// <dir>/live/<name> exists; a capture writes its output file and runs until
// the streamer goes offline or it is signalled.
const fakeToolScript = `#!/bin/sh
LIVE=%q
if [ "$1" = "--output" ]; then
  out="$2"; name="${3##*/}"
  mkdir -p "$(dirname "$out")"
  printf 'video' > "$out"
  while [ -f "$LIVE/$name" ]; do sleep 0.05; done
  exit 0
fi
name="${1##*/}"
if [ -f "$LIVE/$name" ]; then
  printf '{"metadata":{"title":"Speedrun: Any%%%%","author":"%%s","category":"Games"},"streams":{"worst":{},"720p60":{},"best":{}}}' "$name"
  exit 0
fi
printf '{"error":"No playable streams found on this URL: %%s"}' "$1"
exit 1
`

type env struct {
	t       *testing.T
	dataDir string
	liveDir string
	outDir  string
	srv     *httptest.Server
	mgr     *manager.Manager
	notes   *notify.Memory
	events  *manager.MemoryPublisher
}

func newEnv(t *testing.T) *env {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake capture tool is a POSIX shell script")
	}
	dir := t.TempDir()
	e := &env{
		t:       t,
		dataDir: filepath.Join(dir, "data"),
		liveDir: filepath.Join(dir, "live"),
		outDir:  filepath.Join(dir, "recordings"),
		notes:   notify.NewMemory(),
		events:  manager.NewMemoryPublisher(0),
	}
	for _, d := range []string{e.dataDir, e.liveDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
	tool := filepath.Join(dir, "streamlink")
	if err := os.WriteFile(tool, []byte(fmt.Sprintf(fakeToolScript, e.liveDir)), 0o755); err != nil {
		t.Fatalf("write tool: %v", err)
	}

	log := zerolog.Nop()
	set := settings.Open(filepath.Join(e.dataDir, "config.json"), log)
	reg := registry.Open(filepath.Join(e.dataDir, "streamers.json"), log)
	e.mgr = manager.NewWithConfig(manager.ManagerConfig{
		Registry:  reg,
		Settings:  set,
		Prober:    probe.New(probe.Options{Bin: tool, Logger: log}),
		Launcher:  capture.NewLauncher(capture.Options{Bin: tool, Logger: log}),
		Notifier:  e.notes,
		Opener:    e.notes,
		Publisher: e.events,
		Logger:    log,
	})
	e.srv = httptest.NewServer(httpapi.NewMux(e.mgr))
	t.Cleanup(func() {
		e.srv.Close()
		_ = e.mgr.Close(context.Background())
	})

	e.request(http.MethodPatch, "/config", types.SettingsPatch{OutputDir: &e.outDir}, http.StatusOK, nil)
	return e
}

func (e *env) setLive(name string, live bool) {
	e.t.Helper()
	p := filepath.Join(e.liveDir, name)
	if live {
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			e.t.Fatalf("mark live: %v", err)
		}
		return
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		e.t.Fatalf("mark offline: %v", err)
	}
}

func (e *env) pass() { e.mgr.ReconcileOnce(context.Background()) }

// request sends payload as JSON, checks the status code and decodes into out.
func (e *env) request(method, path string, payload any, want int, out any) {
	e.t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			e.t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, e.srv.URL+path, body)
	if err != nil {
		e.t.Fatalf("new req: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		e.t.Fatalf("do req: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != want {
		e.t.Fatalf("%s %s: status %d, want %d; body=%s", method, path, resp.StatusCode, want, string(b))
	}
	if out != nil {
		if err := json.Unmarshal(b, out); err != nil {
			e.t.Fatalf("decode %s: %v; body=%s", path, err, string(b))
		}
	}
}

func (e *env) status(name string) (types.StreamerStatus, bool) {
	e.t.Helper()
	var st types.StatusResponse
	e.request(http.MethodGet, "/status", nil, http.StatusOK, &st)
	for _, s := range st.Streamers {
		if s.Name == name {
			return s, true
		}
	}
	return types.StreamerStatus{}, false
}
