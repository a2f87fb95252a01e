package manager

import (
	"time"

	"github.com/rs/zerolog"

	"streamdvr/internal/notify"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultURLTemplate   = "twitch.tv/{name}"
	defaultShutdownGrace = 5 * time.Second
)

// ManagerConfig encapsulates all collaborators and tunables for Manager construction.
type ManagerConfig struct {
	Registry Registry
	Settings SettingsProvider
	Prober   Prober
	Launcher Launcher
	// Notifier and Opener default to notify.Noop.
	Notifier notify.Notifier
	Opener   notify.Opener
	// Publisher defaults to a no-op publisher.
	Publisher EventPublisher
	Logger    zerolog.Logger

	StreamURLTemplate string
	// RecheckAwaiting re-probes awaiting streamers each pass and drops them
	// to offline once they stop broadcasting.
	RecheckAwaiting bool
	// ShutdownGrace bounds how long Close waits for captures after SIGTERM.
	ShutdownGrace time.Duration
	// Clock overrides time.Now in tests.
	Clock func() time.Time
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		statuses:        make(map[string]StatusEntry),
		captures:        make(map[string]*activeCapture),
		launching:       make(map[string]uint64),
		awaiting:        make(map[string]struct{}),
		registry:        cfg.Registry,
		settings:        cfg.Settings,
		prober:          cfg.Prober,
		launcher:        cfg.Launcher,
		notifier:        cfg.Notifier,
		opener:          cfg.Opener,
		pub:             cfg.Publisher,
		log:             cfg.Logger,
		urlTmpl:         cfg.StreamURLTemplate,
		recheckAwaiting: cfg.RecheckAwaiting,
		shutdownGrace:   cfg.ShutdownGrace,
		now:             cfg.Clock,
		wake:            make(chan struct{}, 1),
	}
	if m.notifier == nil {
		m.notifier = notify.Noop{}
	}
	if m.opener == nil {
		m.opener = notify.Noop{}
	}
	if m.pub == nil {
		m.pub = noopPublisher{}
	}
	if m.urlTmpl == "" {
		m.urlTmpl = defaultURLTemplate
	}
	if m.shutdownGrace <= 0 {
		m.shutdownGrace = defaultShutdownGrace
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.startTime = m.now()
	return m
}
