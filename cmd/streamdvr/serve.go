package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"streamdvr/internal/capture"
	"streamdvr/internal/config"
	"streamdvr/internal/httpapi"
	"streamdvr/internal/logging"
	"streamdvr/internal/manager"
	"streamdvr/internal/notify"
	"streamdvr/internal/probe"
	"streamdvr/internal/registry"
	"streamdvr/internal/settings"
	"streamdvr/internal/watch"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	configPath string
	envFile    string
	verbose    bool
	// flag values; only those the user set override file and env
	flags config.Config
}

func newServeCmd() *cobra.Command { return newServeCmdWith(&serveOptions{}) }

func newServeCmdWith(o *serveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the recorder daemon (HTTP surface and supervisor)",
		Example: "  streamdvr serve\n" +
			"  streamdvr serve --config streamdvr.yaml --verbose\n" +
			"  STREAMDVR_ADDR=:8080 streamdvr serve --data-dir ~/.streamdvr",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, o)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, o.verbose)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "Config file (.yaml/.yml/.json/.toml)")
	f.StringVar(&o.envFile, "env-file", ".env", "Dotenv file loaded before reading STREAMDVR_* variables")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Debug logging, also appended to <data-dir>/<log-dir>/streamdvr.log")
	f.StringVar(&o.flags.Addr, "addr", "", "HTTP listen address (default "+config.DefaultAddr+")")
	f.StringVar(&o.flags.DataDir, "data-dir", "", "Directory holding the settings and streamers files")
	f.StringVar(&o.flags.LogLevel, "log-level", "", "Log level: trace|debug|info|warn|error")
	f.BoolVar(&o.flags.LogPretty, "log-pretty", false, "Human readable console logs")
	f.StringVar(&o.flags.StreamlinkBin, "streamlink-bin", "", "Stream resolution and capture tool")
	f.StringVar(&o.flags.NotifyBin, "notify-bin", "", "Notification helper")
	f.StringVar(&o.flags.OpenBin, "open-bin", "", "Open helper for files and folders")
	f.StringVar(&o.flags.StreamURLTemplate, "stream-url-template", "", "Stream URL with a {name} placeholder")
	f.IntVar(&o.flags.ProbeTimeoutSeconds, "probe-timeout-seconds", 0, "Timeout of a single live probe")
	f.BoolVar(&o.flags.RecheckAwaiting, "recheck-awaiting", false, "Re-probe streamers waiting for confirmation and drop them when offline")
	f.BoolVar(&o.flags.CORSEnabled, "cors-enabled", false, "Enable CORS")
	f.StringSliceVar(&o.flags.CORSOrigins, "cors-origins", nil, "Allowed CORS origins (comma separated)")
	f.Int64Var(&o.flags.MaxBodyBytes, "max-body-bytes", 0, "Maximum JSON request body size")
	return cmd
}

// resolveConfig layers defaults < config file < environment < flags.
func resolveConfig(cmd *cobra.Command, o *serveOptions) (config.Config, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return config.Config{}, fmt.Errorf("load %s: %w", o.envFile, err)
	}
	var cfg config.Config
	if o.configPath != "" {
		c, err := config.Load(o.configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	cfg = cfg.ApplyEnv()

	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}
	set("addr", func() { cfg.Addr = o.flags.Addr })
	set("data-dir", func() { cfg.DataDir = o.flags.DataDir })
	set("log-level", func() { cfg.LogLevel = o.flags.LogLevel })
	set("log-pretty", func() { cfg.LogPretty = o.flags.LogPretty })
	set("streamlink-bin", func() { cfg.StreamlinkBin = o.flags.StreamlinkBin })
	set("notify-bin", func() { cfg.NotifyBin = o.flags.NotifyBin })
	set("open-bin", func() { cfg.OpenBin = o.flags.OpenBin })
	set("stream-url-template", func() { cfg.StreamURLTemplate = o.flags.StreamURLTemplate })
	set("probe-timeout-seconds", func() { cfg.ProbeTimeoutSeconds = o.flags.ProbeTimeoutSeconds })
	set("recheck-awaiting", func() { cfg.RecheckAwaiting = o.flags.RecheckAwaiting })
	set("cors-enabled", func() { cfg.CORSEnabled = o.flags.CORSEnabled })
	set("cors-origins", func() { cfg.CORSOrigins = o.flags.CORSOrigins })
	set("max-body-bytes", func() { cfg.MaxBodyBytes = o.flags.MaxBodyBytes })

	cfg = cfg.WithDefaults()
	if o.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// app is the wired daemon; built separately from serve so tests can drive it.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	mgr     *manager.Manager
	watcher *watch.Watcher
	srv     *http.Server
}

func newApp(cfg config.Config, log zerolog.Logger) *app {
	component := func(name string) zerolog.Logger { return log.With().Str("component", name).Logger() }

	set := settings.Open(cfg.SettingsPath(), component("settings"))
	reg := registry.Open(cfg.StreamersPath(), component("registry"))
	mgr := manager.NewWithConfig(manager.ManagerConfig{
		Registry: reg,
		Settings: set,
		Prober: probe.New(probe.Options{
			Bin:         cfg.StreamlinkBin,
			URLTemplate: cfg.StreamURLTemplate,
			Timeout:     cfg.ProbeTimeout(),
			Logger:      component("probe"),
		}),
		Launcher: capture.NewLauncher(capture.Options{
			Bin:    cfg.StreamlinkBin,
			Args:   cfg.CaptureArgs,
			Logger: component("capture"),
		}),
		Notifier:          notify.Command{Bin: cfg.NotifyBin, Log: component("notify")},
		Opener:            notify.OpenCommand{Bin: cfg.OpenBin, Log: component("notify")},
		Publisher:         manager.NewMemoryPublisher(0),
		Logger:            component("supervisor"),
		StreamURLTemplate: cfg.StreamURLTemplate,
		RecheckAwaiting:   cfg.RecheckAwaiting,
		ShutdownGrace:     shutdownTimeout,
	})

	httpapi.SetLogger(component("http"))
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, nil)

	return &app{
		cfg:     cfg,
		log:     log,
		mgr:     mgr,
		watcher: watch.New(component("watch"), watch.DefaultDebounce, mgr.Kick, set, reg),
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           httpapi.NewMux(mgr),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// run serves until ctx is done, then shuts the HTTP server down and
// terminates active captures.
func (a *app) run(ctx context.Context) error {
	httpapi.SetBaseContext(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info().Str("addr", a.cfg.Addr).Str("data_dir", a.cfg.DataDir).Msg("streamdvr listening")
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error { return a.mgr.Run(gctx) })
	g.Go(func() error { return a.watcher.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.srv.Shutdown(sctx); err != nil {
			a.log.Warn().Err(err).Msg("graceful shutdown error")
		}
		return a.mgr.Close(sctx)
	})
	err := g.Wait()
	a.log.Info().Msg("streamdvr stopped")
	return err
}

func serve(ctx context.Context, cfg config.Config, verbose bool) error {
	lc := logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty}
	if verbose {
		lc.File = cfg.LogFilePath()
	}
	log, closer, err := logging.New(lc)
	if err != nil {
		return err
	}
	defer closer.Close()
	logging.BridgeStdlog(log)

	if ctx == nil {
		ctx = context.Background()
	}
	// Graceful shutdown (Ctrl+C / SIGTERM)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newApp(cfg, log).run(ctx)
}
