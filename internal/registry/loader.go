package registry

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"streamdvr/internal/common/fsutil"
	"streamdvr/internal/config"
)

// Per-entry defaults applied when an add command omits them.
const (
	DefaultQuality = "best"
	DefaultFormat  = "mp4"
)

// ErrEmptyName is returned when a streamer name is blank after normalization.
var ErrEmptyName = errors.New("streamer name is empty")

// Entry is the per-streamer recording preference.
type Entry struct {
	Name    string `json:"name"`
	Quality string `json:"quality"`
	Format  string `json:"format"`
	Manual  bool   `json:"manual"`
}

// record is the persisted value keyed by streamer name.
type record struct {
	Quality string `json:"quality" yaml:"quality" toml:"quality"`
	Format  string `json:"format" yaml:"format" toml:"format"`
	Manual  bool   `json:"manual" yaml:"manual" toml:"manual"`
}

// NormalizeName trims and lower-cases a streamer name.
func NormalizeName(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

func (e Entry) withDefaults() Entry {
	e.Name = NormalizeName(e.Name)
	e.Quality = strings.TrimSpace(e.Quality)
	e.Format = strings.TrimPrefix(strings.TrimSpace(e.Format), ".")
	if e.Quality == "" {
		e.Quality = DefaultQuality
	}
	if e.Format == "" {
		e.Format = DefaultFormat
	}
	return e
}

// Store is the lock-guarded streamer registry backed by a single document
// mapping name to {quality, format, manual}.
type Store struct {
	mu      sync.RWMutex
	path    string
	entries map[string]Entry
	log     zerolog.Logger
}

// Open loads the registry at path. A missing or unreadable file yields an
// empty registry; the failure is logged.
func Open(path string, log zerolog.Logger) *Store {
	s := &Store{path: path, entries: make(map[string]Entry), log: log}
	if err := s.Reload(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("streamers file unreadable, starting empty")
	}
	return s
}

// NewMemory returns a registry that never touches disk.
func NewMemory(entries ...Entry) *Store {
	s := &Store{entries: make(map[string]Entry), log: zerolog.Nop()}
	for _, e := range entries {
		e = e.withDefaults()
		if e.Name != "" {
			s.entries[e.Name] = e
		}
	}
	return s
}

// Path is the backing file, empty for memory stores.
func (s *Store) Path() string { return s.path }

// Reload re-reads the backing file. On failure the last-known entries stay in place.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read streamers: %w", err)
	}
	raw := map[string]record{}
	if len(strings.TrimSpace(string(b))) > 0 {
		if err := config.Decode(s.path, b, &raw); err != nil {
			return fmt.Errorf("decode streamers: %w", err)
		}
	}
	next := make(map[string]Entry, len(raw))
	for name, r := range raw {
		e := Entry{Name: name, Quality: r.Quality, Format: r.Format, Manual: r.Manual}.withDefaults()
		if e.Name == "" {
			continue
		}
		next[e.Name] = e
	}
	s.mu.Lock()
	s.entries = next
	s.mu.Unlock()
	return nil
}

// Get returns the entry for name.
func (s *Store) Get(name string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[NormalizeName(name)]
	return e, ok
}

// Has reports whether name is registered.
func (s *Store) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// List returns a copy of all entries sorted by name.
func (s *Store) List() []Entry {
	s.mu.RLock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Put inserts or replaces an entry and persists the registry.
func (s *Store) Put(e Entry) (Entry, error) {
	e = e.withDefaults()
	if e.Name == "" {
		return e, ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.entries[e.Name]
	s.entries[e.Name] = e
	if err := s.saveLocked(); err != nil {
		if existed {
			s.entries[e.Name] = prev
		} else {
			delete(s.entries, e.Name)
		}
		return e, err
	}
	return e, nil
}

// Delete removes name and persists the registry. It reports whether the
// name was registered.
func (s *Store) Delete(name string) (bool, error) {
	name = NormalizeName(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.entries[name]
	if !ok {
		return false, nil
	}
	delete(s.entries, name)
	if err := s.saveLocked(); err != nil {
		s.entries[name] = prev
		return false, err
	}
	return true, nil
}

func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}
	raw := make(map[string]record, len(s.entries))
	for name, e := range s.entries {
		raw[name] = record{Quality: e.Quality, Format: e.Format, Manual: e.Manual}
	}
	b, err := config.Encode(s.path, raw)
	if err != nil {
		return fmt.Errorf("encode streamers: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write streamers: %w", err)
	}
	return nil
}
