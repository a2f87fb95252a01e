package types

// AddStreamerRequest registers (or updates) a streamer.
type AddStreamerRequest struct {
	// Streamer name; trimmed and lower-cased.
	// example: alice
	Name string `json:"name" example:"alice"`
	// Optional quality; defaults to best.
	Quality string `json:"quality,omitempty" example:"best"`
	// Optional format; defaults to mp4.
	Format string `json:"format,omitempty" example:"mp4"`
	// Gate this streamer on manual confirmation.
	Manual bool `json:"manual,omitempty"`
}

// SettingsPatch is a partial settings update; omitted fields are unchanged.
type SettingsPatch struct {
	OutputDir        *string `json:"output_dir,omitempty"`
	CheckInterval    *int    `json:"check_interval,omitempty"`
	FilenameFormat   *string `json:"filename_format,omitempty"`
	Theme            *string `json:"theme,omitempty"`
	ManualModeGlobal *bool   `json:"manual_mode_global,omitempty"`
}

// OpenFileRequest names a file relative to the output directory.
type OpenFileRequest struct {
	// example: alice/2024-03-09 - Test.mp4
	Filename string `json:"filename" example:"alice/2024-03-09 - Test.mp4"`
}

// StreamersResponse wraps GET /streamers.
type StreamersResponse struct {
	Streamers []Streamer `json:"streamers"`
}

// QualitiesResponse is returned by GET /streamers/{name}/qualities.
type QualitiesResponse struct {
	// online, offline or error.
	// example: online
	Status string `json:"status" example:"online"`
	// Ranked quality keys, best first.
	// example: ["best","720p60","480p","audio_only","worst"]
	Qualities []string `json:"qualities,omitempty"`
	// Failure detail when status is error.
	Message string `json:"message,omitempty"`
}

// RecordingsResponse wraps GET /recordings.
type RecordingsResponse struct {
	Recordings []Recording `json:"recordings"`
}

// EventsResponse wraps GET /events.
type EventsResponse struct {
	Events []Event `json:"events"`
}

// OKResponse acknowledges a command.
type OKResponse struct {
	// example: success
	Status string `json:"status" example:"success"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: not found: alice
	Error string `json:"error" example:"not found: alice"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}

// CaptureStatus describes the running capture of a streamer.
type CaptureStatus struct {
	ID         string `json:"id"`
	PID        int    `json:"pid,omitempty"`
	StartedAt  int64  `json:"started_at_unix"`
	OutputPath string `json:"output_path"`
	Title      string `json:"title,omitempty"`
}

// StreamerStatus is one row of the status snapshot.
type StreamerStatus struct {
	Streamer
	// Lifecycle state: idle, offline, awaiting_user, starting, recording, finished, stopped, error.
	// example: recording
	State string `json:"state" example:"recording"`
	// Human readable label.
	// example: Recording
	Label string `json:"label" example:"Recording"`
	// Last state change (unix seconds).
	LastUpdated int64 `json:"last_updated_unix"`
	// Diagnostic for the error state.
	Detail string `json:"detail,omitempty"`
	// Live and waiting for confirmation.
	Awaiting bool `json:"awaiting"`
	// Present while a capture process is believed running.
	Capture *CaptureStatus `json:"capture,omitempty"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	Streamers []StreamerStatus `json:"streamers"`
	// Streamer name to state label.
	States map[string]string `json:"states"`
	// Global manual gate.
	ManualModeGlobal bool `json:"manual_mode_global"`
	// Number of captures believed running.
	ActiveCaptures int `json:"active_captures"`
	// Completed reconciliation passes.
	Passes uint64 `json:"passes"`
	// Last completed pass (unix seconds); 0 before the first pass.
	LastPassUnix int64 `json:"last_pass_unix"`
	// Uptime of the server in seconds.
	UptimeSeconds int64 `json:"uptime_seconds"`
	// Server time in unix seconds.
	ServerTimeUnix int64 `json:"server_time_unix"`
}
