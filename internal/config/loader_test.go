package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\ndata_dir: /tmp\nprobe_timeout_seconds: 12\nrecheck_awaiting: true\ncapture_args: [\"--force\"]\n")
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":9999" || cfg.DataDir != "/tmp" || cfg.ProbeTimeoutSeconds != 12 || !cfg.RecheckAwaiting || len(cfg.CaptureArgs) != 1 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","streamlink_bin":"/usr/bin/streamlink","log_level":"debug"}`)
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":7070" || cfg.StreamlinkBin != "/usr/bin/streamlink" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nnotify_bin=\"notify-send\"\ncors_enabled=true\ncors_origins=[\"http://localhost\"]\n")
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":8081" || cfg.NotifyBin != "notify-send" || !cfg.CORSEnabled || len(cfg.CORSOrigins) != 1 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil { t.Fatalf("expected error on empty path") }
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil { t.Fatalf("expected unsupported extension error") }
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	if cfg.Addr != DefaultAddr || cfg.StreamlinkBin != DefaultStreamlinkBin || cfg.StreamURLTemplate != DefaultStreamURLTemplate {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ProbeTimeout() != DefaultProbeTimeout {
		t.Fatalf("probe timeout=%v", cfg.ProbeTimeout())
	}
	if len(cfg.CaptureArgs) != len(DefaultCaptureArgs) {
		t.Fatalf("capture args=%v", cfg.CaptureArgs)
	}
	// explicit empty capture args are kept
	cfg = Config{CaptureArgs: []string{}}.WithDefaults()
	if len(cfg.CaptureArgs) != 0 {
		t.Fatalf("explicit empty capture args replaced: %v", cfg.CaptureArgs)
	}
}

func TestPathsResolveAgainstDataDir(t *testing.T) {
	cfg := Config{DataDir: "/var/lib/streamdvr"}.WithDefaults()
	if got := cfg.SettingsPath(); got != filepath.Join("/var/lib/streamdvr", DefaultSettingsFile) {
		t.Fatalf("settings path=%s", got)
	}
	cfg.StreamersFile = "/etc/streamers.yaml"
	if got := cfg.StreamersPath(); got != "/etc/streamers.yaml" {
		t.Fatalf("absolute streamers path rewritten: %s", got)
	}
	if got := cfg.LogFilePath(); got != filepath.Join("/var/lib/streamdvr", "logs", "streamdvr.log") {
		t.Fatalf("log path=%s", got)
	}
}
