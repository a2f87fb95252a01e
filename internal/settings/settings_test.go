package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestOpenMissingFileUsesDefaults(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "config.json"), zerolog.Nop())
	assert.Equal(t, Defaults(), s.Get())
}

func TestOpenFillsMissingKeys(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"check_interval": 15, "manual_mode_global": true}`), 0o644))
	g := Open(p, zerolog.Nop()).Get()
	assert.Equal(t, 15, g.CheckInterval)
	assert.True(t, g.ManualModeGlobal)
	assert.Equal(t, DefaultOutputDir, g.OutputDir)
	assert.Equal(t, DefaultFilenameFormat, g.FilenameFormat)
	assert.Equal(t, DefaultTheme, g.Theme)
}

func TestCorruptFileKeepsLastKnown(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"check_interval": 5}`), 0o644))
	s := Open(p, zerolog.Nop())
	require.Equal(t, 5, s.Get().CheckInterval)

	require.NoError(t, os.WriteFile(p, []byte(`{"check_interval": `), 0o644))
	assert.Error(t, s.Reload())
	assert.Equal(t, 5, s.Get().CheckInterval)
}

func TestUpdatePersistsAndValidates(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sub", "config.yaml")
	s := Open(p, zerolog.Nop())

	g, err := s.Update(Patch{OutputDir: ptr("/data/rec"), CheckInterval: ptr(30)})
	require.NoError(t, err)
	assert.Equal(t, "/data/rec", g.OutputDir)
	assert.Equal(t, DefaultTheme, g.Theme)

	reopened := Open(p, zerolog.Nop()).Get()
	assert.Equal(t, g, reopened)

	_, err = s.Update(Patch{CheckInterval: ptr(0)})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = s.Update(Patch{OutputDir: ptr("  ")})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, 30, s.Get().CheckInterval)
}

func TestPollIntervalFallback(t *testing.T) {
	assert.Equal(t, 60*time.Second, GlobalConfig{}.PollInterval())
	assert.Equal(t, 60*time.Second, GlobalConfig{CheckInterval: -3}.PollInterval())
	assert.Equal(t, 5*time.Second, GlobalConfig{CheckInterval: 5}.PollInterval())
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory(Defaults())
	g, err := s.Update(Patch{ManualModeGlobal: ptr(true)})
	require.NoError(t, err)
	assert.True(t, g.ManualModeGlobal)
	assert.Equal(t, "", s.Path())
}
