package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamdvr/internal/registry"
	"streamdvr/internal/settings"
)

func TestWatcherReloadsExternalEdits(t *testing.T) {
	dir := t.TempDir()
	setPath := filepath.Join(dir, "config.json")
	regPath := filepath.Join(dir, "streamers.json")
	require.NoError(t, os.WriteFile(setPath, []byte(`{"check_interval": 60}`), 0o644))

	set := settings.Open(setPath, zerolog.Nop())
	reg := registry.Open(regPath, zerolog.Nop())
	var changes atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := New(zerolog.Nop(), 20*time.Millisecond, func() { changes.Add(1) }, set, reg)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	// give the watcher a moment to register the directory
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(setPath, []byte(`{"check_interval": 15, "manual_mode_global": true}`), 0o644))
	require.NoError(t, os.WriteFile(regPath, []byte(`{"Alice": {"quality": "720p"}}`), 0o644))

	require.Eventually(t, func() bool {
		return set.Get().CheckInterval == 15 && reg.Has("alice")
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, set.Get().ManualModeGlobal)
	assert.GreaterOrEqual(t, changes.Load(), int32(1))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherKeepsLastKnownOnCorruptEdit(t *testing.T) {
	dir := t.TempDir()
	setPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(setPath, []byte(`{"check_interval": 30}`), 0o644))
	set := settings.Open(setPath, zerolog.Nop())
	var changes atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = New(zerolog.Nop(), 10*time.Millisecond, func() { changes.Add(1) }, set).Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(setPath, []byte(`{"check_interval": `), 0o644))
	require.Eventually(t, func() bool { return changes.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 30, set.Get().CheckInterval)
}

func TestWatcherWithoutTargetsWaitsForCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(zerolog.Nop(), 0, nil, settings.NewMemory(settings.Defaults())).Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}

func TestWatcherSetupFailureDoesNotEndRun(t *testing.T) {
	orig := newFSWatcher
	newFSWatcher = func() (*fsnotify.Watcher, error) { return nil, errors.New("too many open files") }
	t.Cleanup(func() { newFSWatcher = orig })

	set := settings.Open(filepath.Join(t.TempDir(), "config.json"), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(zerolog.Nop(), 0, nil, set).Run(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("Run returned before cancel: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
