package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "STREAMDVR_"

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env") into
// the process environment. Missing files are ignored; existing variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	present := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// ApplyEnv overrides fields of c from STREAMDVR_* environment variables.
func (c Config) ApplyEnv() Config {
	c.Addr = envStr("ADDR", c.Addr)
	c.DataDir = envStr("DATA_DIR", c.DataDir)
	c.SettingsFile = envStr("SETTINGS_FILE", c.SettingsFile)
	c.StreamersFile = envStr("STREAMERS_FILE", c.StreamersFile)
	c.LogLevel = envStr("LOG_LEVEL", c.LogLevel)
	c.LogPretty = envBool("LOG_PRETTY", c.LogPretty)
	c.LogDir = envStr("LOG_DIR", c.LogDir)
	c.StreamlinkBin = envStr("STREAMLINK_BIN", c.StreamlinkBin)
	c.NotifyBin = envStr("NOTIFY_BIN", c.NotifyBin)
	c.OpenBin = envStr("OPEN_BIN", c.OpenBin)
	c.StreamURLTemplate = envStr("STREAM_URL_TEMPLATE", c.StreamURLTemplate)
	if v := envStr("CAPTURE_ARGS", ""); v != "" {
		c.CaptureArgs = splitCSV(v)
	}
	c.ProbeTimeoutSeconds = envInt("PROBE_TIMEOUT_SECONDS", c.ProbeTimeoutSeconds)
	c.RecheckAwaiting = envBool("RECHECK_AWAITING", c.RecheckAwaiting)
	c.CORSEnabled = envBool("CORS_ENABLED", c.CORSEnabled)
	if v := envStr("CORS_ORIGINS", ""); v != "" {
		c.CORSOrigins = splitCSV(v)
	}
	c.MaxBodyBytes = int64(envInt("MAX_BODY_BYTES", int(c.MaxBodyBytes)))
	return c
}

func envStr(key, def string) string {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return def
	}
	s := strings.ToLower(v)
	return s == "1" || s == "true" || s == "yes"
}

func envInt(key string, def int) int {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
