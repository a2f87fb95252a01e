package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime parameters for the daemon.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr                string   `json:"addr" yaml:"addr" toml:"addr"`
	DataDir             string   `json:"data_dir" yaml:"data_dir" toml:"data_dir"`
	SettingsFile        string   `json:"settings_file" yaml:"settings_file" toml:"settings_file"`
	StreamersFile       string   `json:"streamers_file" yaml:"streamers_file" toml:"streamers_file"`
	LogLevel            string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogPretty           bool     `json:"log_pretty" yaml:"log_pretty" toml:"log_pretty"`
	LogDir              string   `json:"log_dir" yaml:"log_dir" toml:"log_dir"`
	StreamlinkBin       string   `json:"streamlink_bin" yaml:"streamlink_bin" toml:"streamlink_bin"`
	NotifyBin           string   `json:"notify_bin" yaml:"notify_bin" toml:"notify_bin"`
	OpenBin             string   `json:"open_bin" yaml:"open_bin" toml:"open_bin"`
	StreamURLTemplate   string   `json:"stream_url_template" yaml:"stream_url_template" toml:"stream_url_template"`
	CaptureArgs         []string `json:"capture_args" yaml:"capture_args" toml:"capture_args"`
	ProbeTimeoutSeconds int      `json:"probe_timeout_seconds" yaml:"probe_timeout_seconds" toml:"probe_timeout_seconds"`
	RecheckAwaiting     bool     `json:"recheck_awaiting" yaml:"recheck_awaiting" toml:"recheck_awaiting"`
	CORSEnabled         bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins         []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	MaxBodyBytes        int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
}

// Defaults applied when the corresponding Config fields are unset.
const (
	DefaultAddr              = ":5660"
	DefaultDataDir           = "."
	DefaultSettingsFile      = "config.json"
	DefaultStreamersFile     = "streamers.json"
	DefaultLogLevel          = "info"
	DefaultLogDir            = "logs"
	DefaultStreamlinkBin     = "streamlink"
	DefaultNotifyBin         = "termux-notification"
	DefaultOpenBin           = "termux-open"
	DefaultStreamURLTemplate = "twitch.tv/{name}"
	DefaultProbeTimeout      = 30 * time.Second
)

// DefaultCaptureArgs are passed to the capture tool ahead of the stream URL.
var DefaultCaptureArgs = []string{"--twitch-disable-ads", "--force"}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := Decode(path, b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// WithDefaults returns a copy of c with every unset field filled in.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.SettingsFile == "" {
		c.SettingsFile = DefaultSettingsFile
	}
	if c.StreamersFile == "" {
		c.StreamersFile = DefaultStreamersFile
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogDir == "" {
		c.LogDir = DefaultLogDir
	}
	if c.StreamlinkBin == "" {
		c.StreamlinkBin = DefaultStreamlinkBin
	}
	if c.NotifyBin == "" {
		c.NotifyBin = DefaultNotifyBin
	}
	if c.OpenBin == "" {
		c.OpenBin = DefaultOpenBin
	}
	if c.StreamURLTemplate == "" {
		c.StreamURLTemplate = DefaultStreamURLTemplate
	}
	if c.CaptureArgs == nil {
		c.CaptureArgs = append([]string(nil), DefaultCaptureArgs...)
	}
	if c.ProbeTimeoutSeconds <= 0 {
		c.ProbeTimeoutSeconds = int(DefaultProbeTimeout / time.Second)
	}
	return c
}

// ProbeTimeout returns the probe timeout as a duration.
func (c Config) ProbeTimeout() time.Duration {
	if c.ProbeTimeoutSeconds <= 0 {
		return DefaultProbeTimeout
	}
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

// SettingsPath resolves the settings file against the data dir.
func (c Config) SettingsPath() string { return resolve(c.DataDir, c.SettingsFile) }

// StreamersPath resolves the streamers file against the data dir.
func (c Config) StreamersPath() string { return resolve(c.DataDir, c.StreamersFile) }

// LogFilePath is where verbose logging appends.
func (c Config) LogFilePath() string { return filepath.Join(resolve(c.DataDir, c.LogDir), "streamdvr.log") }

func resolve(dir, p string) string {
	if filepath.IsAbs(p) || dir == "" {
		return p
	}
	return filepath.Join(dir, p)
}
