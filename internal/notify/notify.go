// Package notify delivers best-effort desktop/mobile notifications and opens
// files with the platform's "open" helper. Failures never reach the caller of
// Notify; Open reports them so the HTTP surface can answer.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// commandTimeout bounds a single helper invocation.
const commandTimeout = 10 * time.Second

// Notifier fires a notification. Implementations must not block for long and must not panic.
type Notifier interface {
	Notify(title, body string)
}

// Opener opens a path with the OS-level "open" capability.
type Opener interface {
	Open(path string) error
}

// Noop drops notifications and refuses nothing.
type Noop struct{}

func (Noop) Notify(string, string) {}
func (Noop) Open(string) error     { return nil }

// Command runs a notification helper (termux-notification by default) in the background.
type Command struct {
	Bin string
	Log zerolog.Logger
}

func (c Command) Notify(title, body string) {
	bin := strings.TrimSpace(c.Bin)
	if bin == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		if err := exec.CommandContext(ctx, bin, "--title", title, "--content", body).Run(); err != nil {
			c.Log.Debug().Err(err).Str("bin", bin).Msg("notification failed")
		}
	}()
}

// OpenCommand runs an open helper (termux-open, xdg-open) for a path.
type OpenCommand struct {
	Bin string
	Log zerolog.Logger
}

func (o OpenCommand) Open(path string) error {
	bin := strings.TrimSpace(o.Bin)
	if bin == "" {
		return fmt.Errorf("no open helper configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := exec.CommandContext(ctx, bin, path).Run(); err != nil {
		o.Log.Warn().Err(err).Str("bin", bin).Str("path", path).Msg("open failed")
		return fmt.Errorf("%s %s: %w", bin, path, err)
	}
	return nil
}

// Message is a recorded notification.
type Message struct {
	Title string
	Body  string
}

// Memory records notifications and opened paths for tests.
type Memory struct {
	mu      sync.Mutex
	msgs    []Message
	opened  []string
	OpenErr error
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Notify(title, body string) {
	m.mu.Lock()
	m.msgs = append(m.msgs, Message{Title: title, Body: body})
	m.mu.Unlock()
}

func (m *Memory) Open(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.OpenErr != nil {
		return m.OpenErr
	}
	m.opened = append(m.opened, path)
	return nil
}

func (m *Memory) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.msgs...)
}

func (m *Memory) Opened() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.opened...)
}
