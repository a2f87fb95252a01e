// Package settings holds the runtime recording settings that the UI edits:
// output location, poll interval, filename template, theme and the global
// manual gate. The document on disk is the source of truth; every missing key
// takes its default.
package settings

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"streamdvr/internal/common/fsutil"
	"streamdvr/internal/config"
)

// Defaults applied for any key missing from the settings document.
const (
	DefaultOutputDir      = "/sdcard/Download/TwitchStreams"
	DefaultCheckInterval  = 60
	DefaultFilenameFormat = "{date} - {title}"
	DefaultTheme          = "theme-naruto"
)

// ErrInvalid marks a rejected settings update.
var ErrInvalid = errors.New("invalid settings")

// GlobalConfig is the persisted settings document.
type GlobalConfig struct {
	OutputDir        string `json:"output_dir" yaml:"output_dir" toml:"output_dir"`
	CheckInterval    int    `json:"check_interval" yaml:"check_interval" toml:"check_interval"`
	FilenameFormat   string `json:"filename_format" yaml:"filename_format" toml:"filename_format"`
	Theme            string `json:"theme" yaml:"theme" toml:"theme"`
	ManualModeGlobal bool   `json:"manual_mode_global" yaml:"manual_mode_global" toml:"manual_mode_global"`
}

// Patch is a partial update; nil fields are left untouched. It doubles as the
// on-disk decode target so absent keys can be told apart from zero values.
type Patch struct {
	OutputDir        *string `json:"output_dir,omitempty" yaml:"output_dir,omitempty" toml:"output_dir,omitempty"`
	CheckInterval    *int    `json:"check_interval,omitempty" yaml:"check_interval,omitempty" toml:"check_interval,omitempty"`
	FilenameFormat   *string `json:"filename_format,omitempty" yaml:"filename_format,omitempty" toml:"filename_format,omitempty"`
	Theme            *string `json:"theme,omitempty" yaml:"theme,omitempty" toml:"theme,omitempty"`
	ManualModeGlobal *bool   `json:"manual_mode_global,omitempty" yaml:"manual_mode_global,omitempty" toml:"manual_mode_global,omitempty"`
}

// Defaults returns the settings used when nothing is persisted.
func Defaults() GlobalConfig {
	return GlobalConfig{
		OutputDir:        DefaultOutputDir,
		CheckInterval:    DefaultCheckInterval,
		FilenameFormat:   DefaultFilenameFormat,
		Theme:            DefaultTheme,
		ManualModeGlobal: false,
	}
}

// PollInterval is the tick period. Non-positive intervals fall back to the default.
func (g GlobalConfig) PollInterval() time.Duration {
	if g.CheckInterval <= 0 {
		return DefaultCheckInterval * time.Second
	}
	return time.Duration(g.CheckInterval) * time.Second
}

// OutputRoot returns OutputDir with a leading '~' expanded.
func (g GlobalConfig) OutputRoot() string {
	p, err := fsutil.ExpandHome(g.OutputDir)
	if err != nil {
		return g.OutputDir
	}
	return p
}

// Apply returns g with the non-nil fields of p applied.
func (g GlobalConfig) Apply(p Patch) GlobalConfig {
	if p.OutputDir != nil {
		g.OutputDir = *p.OutputDir
	}
	if p.CheckInterval != nil {
		g.CheckInterval = *p.CheckInterval
	}
	if p.FilenameFormat != nil {
		g.FilenameFormat = *p.FilenameFormat
	}
	if p.Theme != nil {
		g.Theme = *p.Theme
	}
	if p.ManualModeGlobal != nil {
		g.ManualModeGlobal = *p.ManualModeGlobal
	}
	return g
}

// Validate rejects patches the recorder cannot run with.
func (p Patch) Validate() error {
	if p.OutputDir != nil && strings.TrimSpace(*p.OutputDir) == "" {
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalid)
	}
	if p.CheckInterval != nil && *p.CheckInterval <= 0 {
		return fmt.Errorf("%w: check_interval must be positive", ErrInvalid)
	}
	if p.FilenameFormat != nil && strings.TrimSpace(*p.FilenameFormat) == "" {
		return fmt.Errorf("%w: filename_format must not be empty", ErrInvalid)
	}
	return nil
}

// Store serves the current settings and persists updates.
type Store struct {
	mu   sync.RWMutex
	path string
	cur  GlobalConfig
	log  zerolog.Logger
}

// Open loads the settings at path. A missing, unreadable or corrupt file
// yields the defaults; the error is logged, never returned.
func Open(path string, log zerolog.Logger) *Store {
	s := &Store{path: path, cur: Defaults(), log: log}
	if err := s.Reload(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("settings unreadable, using defaults")
	}
	return s
}

// NewMemory returns a store that never touches disk; useful for tests.
func NewMemory(g GlobalConfig) *Store {
	return &Store{cur: g, log: zerolog.Nop()}
}

// Path is the backing file, empty for memory stores.
func (s *Store) Path() string { return s.path }

// Get returns the current settings.
func (s *Store) Get() GlobalConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Reload re-reads the backing file. On failure the last-known settings stay in place.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read settings: %w", err)
	}
	var p Patch
	if err := config.Decode(s.path, b, &p); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	next := Defaults().Apply(p)
	s.mu.Lock()
	s.cur = next
	s.mu.Unlock()
	return nil
}

// Update validates and applies p, then persists the full document.
// The in-memory settings change only when the write succeeds.
func (s *Store) Update(p Patch) (GlobalConfig, error) {
	if err := p.Validate(); err != nil {
		return s.Get(), err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cur.Apply(p)
	if s.path != "" {
		b, err := config.Encode(s.path, next)
		if err != nil {
			return s.cur, fmt.Errorf("encode settings: %w", err)
		}
		if err := fsutil.WriteFileAtomic(s.path, b, 0o644); err != nil {
			return s.cur, fmt.Errorf("write settings: %w", err)
		}
	}
	s.cur = next
	s.log.Info().Str("output_dir", next.OutputDir).Int("check_interval", next.CheckInterval).
		Bool("manual_mode_global", next.ManualModeGlobal).Msg("settings updated")
	return next, nil
}
