package manager

import "sync"

// defaultEventLimit bounds MemoryPublisher when no limit is given.
const defaultEventLimit = 256

// MemoryPublisher keeps the most recent events in memory. It backs the
// /events endpoint and is used by tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	limit  int
	events []Event
}

// NewMemoryPublisher returns a publisher keeping at most limit events
// (defaultEventLimit when limit <= 0).
func NewMemoryPublisher(limit int) *MemoryPublisher {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	return &MemoryPublisher{limit: limit}
}

func (p *MemoryPublisher) Publish(e Event) {
	p.mu.Lock()
	p.events = append(p.events, e)
	if len(p.events) > p.limit {
		p.events = append([]Event(nil), p.events[len(p.events)-p.limit:]...)
	}
	p.mu.Unlock()
}

// Events returns the retained events, oldest first.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// Named returns the retained events with the given name.
func (p *MemoryPublisher) Named(name string) []Event {
	var out []Event
	for _, e := range p.Events() {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
