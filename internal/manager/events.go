package manager

import "time"

// Event names published by the manager.
const (
	EventStreamerAdded   = "streamer_added"
	EventStreamerRemoved = "streamer_removed"
	EventProbeLive       = "probe_live"
	EventAwaiting        = "awaiting"
	EventCaptureStart    = "capture_start"
	EventCaptureError    = "capture_error"
	EventCaptureFinished = "capture_finished"
	EventCaptureStop     = "capture_stop"
	EventStreamerPanic   = "streamer_panic"
)

// Event represents a manager lifecycle event.
// Minimal and stable: name + streamer and optional fields via key/values.
type Event struct {
	Name     string
	Streamer string
	Time     time.Time
	Fields   map[string]any
}

// EventPublisher receives events from the manager. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
