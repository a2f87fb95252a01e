package manager

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"streamdvr/pkg/types"
)

// recordingExts are the container formats listed by the gallery.
var recordingExts = map[string]bool{".mp4": true, ".mkv": true, ".ts": true}

// ListRecordings walks the output root and returns recordings relative to
// it, newest first. A missing root yields an empty list.
func (m *Manager) ListRecordings() ([]types.Recording, error) {
	root := m.settings.Get().OutputRoot()
	out := []types.Recording{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			// unreadable subtrees are skipped, not fatal
			m.log.Debug().Err(err).Str("path", p).Msg("gallery: skip")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !recordingExts[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		out = append(out, types.Recording{Path: filepath.ToSlash(rel), Size: info.Size(), ModifiedUnix: info.ModTime().Unix()})
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ModifiedUnix != out[j].ModifiedUnix {
			return out[i].ModifiedUnix > out[j].ModifiedUnix
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
