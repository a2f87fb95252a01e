package manager

import (
	"context"

	"streamdvr/internal/capture"
	"streamdvr/internal/probe"
	"streamdvr/internal/registry"
	"streamdvr/internal/settings"
)

// Prober reports live status and quality options. Probe never fails; every
// failure reads as not live.
type Prober interface {
	Probe(ctx context.Context, name string) (probe.Metadata, bool)
	ListQualities(ctx context.Context, name string) (probe.QualityList, error)
}

// Launcher spawns capture processes.
type Launcher interface {
	Start(req capture.Request) (capture.Handle, error)
}

// Registry is the streamer table. Implementations guard themselves; the
// Manager additionally serializes mutations under its own lock.
type Registry interface {
	Get(name string) (registry.Entry, bool)
	Has(name string) bool
	List() []registry.Entry
	Put(e registry.Entry) (registry.Entry, error)
	Delete(name string) (bool, error)
}

// SettingsProvider serves and updates the global settings.
type SettingsProvider interface {
	Get() settings.GlobalConfig
	Update(p settings.Patch) (settings.GlobalConfig, error)
}
