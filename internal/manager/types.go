package manager

import (
	"time"

	"streamdvr/internal/capture"
)

// State is the lifecycle state of one streamer.
type State string

const (
	StateIdle         State = "idle"
	StateOffline      State = "offline"
	StateAwaitingUser State = "awaiting_user"
	StateStarting     State = "starting"
	StateRecording    State = "recording"
	StateFinished     State = "finished"
	StateStopped      State = "stopped"
	StateError        State = "error"
)

// labelWaitingUser marks an awaiting streamer on passes after the one that
// detected it.
const labelWaitingUser = "Waiting User"

// Label is the human readable form shown in the UI.
func (s State) Label() string {
	switch s {
	case StateOffline:
		return "Offline"
	case StateAwaitingUser:
		return "Live (Waiting)"
	case StateStarting:
		return "Starting..."
	case StateRecording:
		return "Recording"
	case StateFinished:
		return "Finished"
	case StateStopped:
		return "Stopped"
	case StateError:
		return "Error"
	default:
		return "Idle"
	}
}

// StatusEntry is the view of one streamer's state.
type StatusEntry struct {
	Streamer    string
	State       State
	Label       string
	LastUpdated time.Time
	// Detail carries the diagnostic for StateError.
	Detail string
}

// activeCapture is the exclusive owner of a capture process handle.
type activeCapture struct {
	streamer  string
	handle    capture.Handle
	startedAt time.Time
	title     string
}

// Snapshot is a read-only projection of the shared tables.
type Snapshot struct {
	Statuses map[string]StatusEntry
	Captures map[string]CaptureInfo
	Awaiting []string
}

// CaptureInfo is a copy of an active capture's bookkeeping.
type CaptureInfo struct {
	ID         string
	PID        int
	StartedAt  time.Time
	OutputPath string
	Title      string
}
