// Package capture spawns and tracks the external capture processes that
// write a live stream to disk.
package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Request describes one capture to start.
type Request struct {
	Streamer   string
	URL        string
	Quality    string
	OutputPath string
}

// Handle is the exclusive reference to a running capture process.
type Handle interface {
	ID() string
	PID() int
	StartedAt() time.Time
	OutputPath() string
	// Running polls liveness without blocking.
	Running() bool
	// Terminate asks the process to stop; it does not wait for exit.
	Terminate() error
	// Kill forcibly ends the process.
	Kill() error
	// Done is closed once the process has exited.
	Done() <-chan struct{}
	// ExitErr is the wait error once Done is closed.
	ExitErr() error
}

// LaunchError reports that the capture tool could not be spawned.
type LaunchError struct {
	Streamer string
	Err      error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch capture for %s: %v", e.Streamer, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// IsLaunchError reports whether err is a LaunchError.
func IsLaunchError(err error) bool {
	var le *LaunchError
	return errors.As(err, &le)
}

// Options configures a Launcher.
type Options struct {
	Bin string
	// Args are inserted between the output flag and the stream URL.
	Args   []string
	Logger zerolog.Logger
}

// Launcher starts capture processes with the stream-resolution tool.
type Launcher struct {
	bin  string
	args []string
	log  zerolog.Logger
}

// NewLauncher constructs a Launcher.
func NewLauncher(o Options) *Launcher {
	bin := strings.TrimSpace(o.Bin)
	if bin == "" {
		bin = "streamlink"
	}
	return &Launcher{bin: bin, args: append([]string(nil), o.Args...), log: o.Logger}
}

// Command returns the argv used for req; exposed for diagnostics and tests.
func (l *Launcher) Command(req Request) []string {
	quality := strings.TrimSpace(req.Quality)
	if quality == "" {
		quality = "best"
	}
	// fall back to best when the preferred quality is not offered
	if quality != "best" {
		quality += ",best"
	}
	argv := []string{l.bin, "--output", req.OutputPath}
	argv = append(argv, l.args...)
	return append(argv, req.URL, quality)
}

// Start spawns the capture process. Output is discarded except for a stderr
// tail kept for diagnostics.
func (l *Launcher) Start(req Request) (Handle, error) {
	argv := l.Command(req)
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = io.Discard
	stderr := newTailBuffer(4096)
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Streamer: req.Streamer, Err: err}
	}
	p := &process{
		id:        uuid.NewString(),
		cmd:       cmd,
		startedAt: time.Now(),
		output:    req.OutputPath,
		done:      make(chan struct{}),
		stderr:    stderr,
	}
	l.log.Info().Str("event", "capture_spawn").Str("streamer", req.Streamer).Int("pid", p.PID()).
		Str("output", req.OutputPath).Str("id", p.id).Msg("capture process started")
	go p.wait(l.log, req.Streamer)
	return p, nil
}

type process struct {
	id        string
	cmd       *exec.Cmd
	startedAt time.Time
	output    string
	done      chan struct{}
	stderr    *tailBuffer

	mu      sync.Mutex
	exitErr error
}

func (p *process) wait(log zerolog.Logger, streamer string) {
	err := p.cmd.Wait()
	p.mu.Lock()
	p.exitErr = err
	p.mu.Unlock()
	close(p.done)
	ev := log.Info()
	if err != nil {
		ev = log.Warn().Err(err).Str("stderr_tail", p.stderr.String())
	}
	ev.Str("event", "capture_exit").Str("streamer", streamer).Int("pid", p.PID()).Str("id", p.id).Msg("capture process exited")
}

func (p *process) ID() string           { return p.id }
func (p *process) StartedAt() time.Time { return p.startedAt }
func (p *process) OutputPath() string   { return p.output }
func (p *process) Done() <-chan struct{} { return p.done }

func (p *process) PID() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *process) Running() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *process) Terminate() error {
	if !p.Running() {
		return nil
	}
	if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

func (p *process) Kill() error {
	if !p.Running() {
		return nil
	}
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

func (p *process) ExitErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitErr
}
