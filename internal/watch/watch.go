// Package watch reloads on-disk documents when they are edited outside the
// daemon.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 250 * time.Millisecond

// Reloader is a file-backed document that can re-read itself. A failing
// Reload must keep the last-known contents.
type Reloader interface {
	Path() string
	Reload() error
}

// Watcher watches the directories of its targets (editors and atomic writes
// replace files, so the file inode itself is not stable).
type Watcher struct {
	targets  map[string]Reloader
	debounce time.Duration
	onChange func()
	log      zerolog.Logger
}

// New builds a Watcher for targets. Targets without a path are ignored.
// onChange, if set, runs after every batch of reloads.
func New(log zerolog.Logger, debounce time.Duration, onChange func(), targets ...Reloader) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{targets: make(map[string]Reloader), debounce: debounce, onChange: onChange, log: log}
	for _, t := range targets {
		if t == nil || t.Path() == "" {
			continue
		}
		p, err := filepath.Abs(t.Path())
		if err != nil {
			p = filepath.Clean(t.Path())
		}
		w.targets[p] = t
	}
	return w
}

// newFSWatcher is swapped in tests.
var newFSWatcher = fsnotify.NewWatcher

// Run blocks until ctx is done. Failing to set up the watcher is logged,
// never returned.
func (w *Watcher) Run(ctx context.Context) error {
	if len(w.targets) == 0 {
		<-ctx.Done()
		return nil
	}
	fw, err := newFSWatcher()
	if err != nil {
		// reloads are a convenience; the daemon keeps running without them
		w.log.Error().Err(err).Msg("watch: cannot create watcher, external edits need a restart")
		<-ctx.Done()
		return nil
	}
	defer fw.Close()

	dirs := map[string]bool{}
	for p := range w.targets {
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := os.MkdirAll(dir, 0o755); err != nil {
			w.log.Warn().Err(err).Str("dir", dir).Msg("watch: cannot create dir")
			continue
		}
		if err := fw.Add(dir); err != nil {
			w.log.Warn().Err(err).Str("dir", dir).Msg("watch: cannot watch dir")
			continue
		}
		w.log.Debug().Str("dir", dir).Msg("watching")
	}

	pending := map[string]bool{}
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			p, err := filepath.Abs(ev.Name)
			if err != nil {
				p = filepath.Clean(ev.Name)
			}
			if _, ok := w.targets[p]; !ok {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
				continue
			}
			pending[p] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.flush(pending)
			pending = map[string]bool{}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) flush(pending map[string]bool) {
	for p := range pending {
		if err := w.targets[p].Reload(); err != nil {
			w.log.Warn().Err(err).Str("path", p).Msg("reload failed, keeping last-known values")
			continue
		}
		w.log.Info().Str("path", p).Msg("reloaded after external edit")
	}
	if w.onChange != nil {
		w.onChange()
	}
}
