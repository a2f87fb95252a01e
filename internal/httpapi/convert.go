package httpapi

import (
	"streamdvr/internal/manager"
	"streamdvr/internal/registry"
	"streamdvr/internal/settings"
	"streamdvr/pkg/types"
)

func toStreamer(e registry.Entry) types.Streamer {
	return types.Streamer{Name: e.Name, Quality: e.Quality, Format: e.Format, Manual: e.Manual}
}

func toSettings(g settings.GlobalConfig) types.Settings {
	return types.Settings{
		OutputDir:        g.OutputDir,
		CheckInterval:    g.CheckInterval,
		FilenameFormat:   g.FilenameFormat,
		Theme:            g.Theme,
		ManualModeGlobal: g.ManualModeGlobal,
	}
}

func toPatch(p types.SettingsPatch) settings.Patch {
	return settings.Patch{
		OutputDir:        p.OutputDir,
		CheckInterval:    p.CheckInterval,
		FilenameFormat:   p.FilenameFormat,
		Theme:            p.Theme,
		ManualModeGlobal: p.ManualModeGlobal,
	}
}

func toEvents(in []manager.Event) []types.Event {
	out := make([]types.Event, 0, len(in))
	for _, e := range in {
		out = append(out, types.Event{Name: e.Name, Streamer: e.Streamer, TimeUnix: e.Time.Unix(), Fields: e.Fields})
	}
	return out
}
