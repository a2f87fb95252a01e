package types

// Streamer is a registered streamer and its recording preferences.
type Streamer struct {
	// Unique, lower-cased streamer name.
	// example: alice
	Name string `json:"name" example:"alice"`
	// Preferred quality key; falls back to best when not offered.
	// example: 720p60
	Quality string `json:"quality" example:"720p60"`
	// Container format / file extension.
	// example: mp4
	Format string `json:"format" example:"mp4"`
	// Require manual confirmation before recording.
	// example: false
	Manual bool `json:"manual" example:"false"`
}

// Settings is the persisted global configuration.
type Settings struct {
	// Root directory; recordings go to <output_dir>/<streamer>/.
	// example: /sdcard/Download/TwitchStreams
	OutputDir string `json:"output_dir" example:"/sdcard/Download/TwitchStreams"`
	// Poll interval in seconds.
	// example: 60
	CheckInterval int `json:"check_interval" example:"60"`
	// Filename template with {author}, {title}, {date}, {time}, {HH}.
	// example: {date} - {title}
	FilenameFormat string `json:"filename_format" example:"{date} - {title}"`
	// UI theme name.
	// example: theme-naruto
	Theme string `json:"theme" example:"theme-naruto"`
	// Gate every live detection on manual confirmation.
	// example: false
	ManualModeGlobal bool `json:"manual_mode_global" example:"false"`
}

// Recording is a finished or in-progress file under the output directory.
type Recording struct {
	// Path relative to the output directory.
	// example: alice/2024-03-09 - Test.mp4
	Path string `json:"path" example:"alice/2024-03-09 - Test.mp4"`
	// Size in bytes.
	Size int64 `json:"size"`
	// Modification time (unix seconds).
	ModifiedUnix int64 `json:"modified_unix"`
}

// Event is a supervisor lifecycle event.
type Event struct {
	Name     string         `json:"name"`
	Streamer string         `json:"streamer,omitempty"`
	TimeUnix int64          `json:"time_unix"`
	Fields   map[string]any `json:"fields,omitempty"`
}
