package manager

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"streamdvr/internal/capture"
	"streamdvr/internal/notify"
	"streamdvr/internal/probe"
	"streamdvr/internal/registry"
	"streamdvr/internal/settings"
)

// fakeProber answers probes from a table of live streamers.
type fakeProber struct {
	mu      sync.Mutex
	live    map[string]probe.Metadata
	calls   map[string]int
	panicOn string
	// gate, when set, blocks every probe until it is closed.
	gate chan struct{}
	qual probe.QualityList
	qerr error
}

func newFakeProber() *fakeProber {
	return &fakeProber{live: map[string]probe.Metadata{}, calls: map[string]int{}}
}

func (p *fakeProber) setLive(name, title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.live[name] = probe.Metadata{Live: true, Title: title, Qualities: []string{"best", "worst"}}
}

func (p *fakeProber) setOffline(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.live, name)
}

func (p *fakeProber) count(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[name]
}

func (p *fakeProber) Probe(ctx context.Context, name string) (probe.Metadata, bool) {
	p.mu.Lock()
	p.calls[name]++
	gate := p.gate
	if p.panicOn == name {
		p.mu.Unlock()
		panic("probe exploded")
	}
	md, ok := p.live[name]
	p.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return md, ok
}

func (p *fakeProber) ListQualities(ctx context.Context, name string) (probe.QualityList, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.qual, p.qerr
}

// fakeHandle is a capture whose exit the test controls.
type fakeHandle struct {
	id         string
	pid        int
	startedAt  time.Time
	out        string
	done       chan struct{}
	once       sync.Once
	terminated atomic.Int32
	killed     atomic.Int32
	// exitOnTerm makes Terminate end the process immediately.
	exitOnTerm bool
}

func (h *fakeHandle) ID() string            { return h.id }
func (h *fakeHandle) PID() int              { return h.pid }
func (h *fakeHandle) StartedAt() time.Time  { return h.startedAt }
func (h *fakeHandle) OutputPath() string    { return h.out }
func (h *fakeHandle) Done() <-chan struct{} { return h.done }
func (h *fakeHandle) ExitErr() error        { return nil }

func (h *fakeHandle) Running() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *fakeHandle) exit() { h.once.Do(func() { close(h.done) }) }

func (h *fakeHandle) Terminate() error {
	h.terminated.Add(1)
	if h.exitOnTerm {
		h.exit()
	}
	return nil
}

func (h *fakeHandle) Kill() error {
	h.killed.Add(1)
	h.exit()
	return nil
}

// fakeLauncher records every start request.
type fakeLauncher struct {
	mu         sync.Mutex
	reqs       []capture.Request
	handles    map[string][]*fakeHandle
	fail       error
	exitOnTerm bool
	inflight   atomic.Int32
	maxInfl    atomic.Int32
	delay      time.Duration
	// panics makes that many upcoming Start calls panic.
	panics atomic.Int32
	// onStart runs inside Start before the handle is created.
	onStart func(req capture.Request)
}

func newFakeLauncher() *fakeLauncher {
	return &fakeLauncher{handles: map[string][]*fakeHandle{}, exitOnTerm: true}
}

func (l *fakeLauncher) Start(req capture.Request) (capture.Handle, error) {
	n := l.inflight.Add(1)
	defer l.inflight.Add(-1)
	for {
		cur := l.maxInfl.Load()
		if n <= cur || l.maxInfl.CompareAndSwap(cur, n) {
			break
		}
	}
	if l.delay > 0 {
		time.Sleep(l.delay)
	}
	if l.panics.Load() > 0 {
		l.panics.Add(-1)
		panic("launcher exploded")
	}
	if l.onStart != nil {
		l.onStart(req)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reqs = append(l.reqs, req)
	if l.fail != nil {
		return nil, &capture.LaunchError{Streamer: req.Streamer, Err: l.fail}
	}
	h := &fakeHandle{
		id:         req.Streamer + "-" + time.Now().Format("150405.000000"),
		pid:        1000 + len(l.reqs),
		startedAt:  time.Now(),
		out:        req.OutputPath,
		done:       make(chan struct{}),
		exitOnTerm: l.exitOnTerm,
	}
	l.handles[req.Streamer] = append(l.handles[req.Streamer], h)
	return h, nil
}

func (l *fakeLauncher) starts(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.handles[name])
}

func (l *fakeLauncher) last(name string) *fakeHandle {
	l.mu.Lock()
	defer l.mu.Unlock()
	hs := l.handles[name]
	if len(hs) == 0 {
		return nil
	}
	return hs[len(hs)-1]
}

func (l *fakeLauncher) requests() []capture.Request {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]capture.Request(nil), l.reqs...)
}

var errSpawn = errors.New("exec: \"streamlink\": executable file not found in $PATH")

type harness struct {
	m   *Manager
	reg *registry.Store
	set *settings.Store
	pr  *fakeProber
	la  *fakeLauncher
	nt  *notify.Memory
	pub *MemoryPublisher
}

func newHarness(t *testing.T, mutate func(*ManagerConfig), entries ...registry.Entry) *harness {
	t.Helper()
	g := settings.Defaults()
	g.OutputDir = t.TempDir()
	h := &harness{
		reg: registry.NewMemory(entries...),
		set: settings.NewMemory(g),
		pr:  newFakeProber(),
		la:  newFakeLauncher(),
		nt:  notify.NewMemory(),
		pub: NewMemoryPublisher(0),
	}
	cfg := ManagerConfig{
		Registry:      h.reg,
		Settings:      h.set,
		Prober:        h.pr,
		Launcher:      h.la,
		Notifier:      h.nt,
		Opener:        h.nt,
		Publisher:     h.pub,
		Logger:        zerolog.Nop(),
		ShutdownGrace: 200 * time.Millisecond,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	h.m = NewWithConfig(cfg)
	return h
}

func (h *harness) pass() { h.m.ReconcileOnce(context.Background()) }

func (h *harness) state(name string) State {
	return h.m.Snapshot().Statuses[name].State
}
