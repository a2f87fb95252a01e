package probe

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTitle is used when the tool reports a live stream without a title.
const DefaultTitle = "Unknown"

// Metadata is a fresh probe result; never persisted.
type Metadata struct {
	Live      bool
	Title     string
	Author    string
	Category  string
	Qualities []string
}

// Availability classifies a quality listing.
type Availability string

const (
	Online  Availability = "online"
	Offline Availability = "offline"
)

// QualityList is the result of ListQualities.
type QualityList struct {
	Status    Availability
	Qualities []string
}

// Error is a probe failure surfaced by ListQualities (ProbeError).
type Error struct{ Msg string }

func (e *Error) Error() string { return "probe error: " + e.Msg }

// Options configures a Prober.
type Options struct {
	Bin         string
	URLTemplate string
	Timeout     time.Duration
	Runner      Runner
	Logger      zerolog.Logger
}

// Prober invokes the stream-resolution tool in JSON mode.
type Prober struct {
	bin     string
	urlTmpl string
	timeout time.Duration
	runner  Runner
	log     zerolog.Logger
}

// New constructs a Prober, filling unset options with defaults.
func New(o Options) *Prober {
	p := &Prober{bin: o.Bin, urlTmpl: o.URLTemplate, timeout: o.Timeout, runner: o.Runner, log: o.Logger}
	if p.bin == "" {
		p.bin = "streamlink"
	}
	if p.urlTmpl == "" {
		p.urlTmpl = "twitch.tv/{name}"
	}
	if p.runner == nil {
		p.runner = ExecRunner{}
	}
	return p
}

// StreamURL renders the stream URL for a streamer name.
func (p *Prober) StreamURL(name string) string {
	return StreamURL(p.urlTmpl, name)
}

// StreamURL substitutes {name} in tmpl.
func StreamURL(tmpl, name string) string {
	return strings.ReplaceAll(tmpl, "{name}", name)
}

// toolOutput mirrors the subset of `streamlink --json` output we consume.
type toolOutput struct {
	Error    *string                    `json:"error"`
	Metadata *toolMetadata              `json:"metadata"`
	Streams  map[string]json.RawMessage `json:"streams"`
}

type toolMetadata struct {
	Title    *string `json:"title"`
	Author   *string `json:"author"`
	Category *string `json:"category"`
}

func (p *Prober) run(ctx context.Context, name string) ([]byte, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.runner.Run(ctx, p.bin, p.StreamURL(name), "--json")
}

// Probe reports whether name is live. It never fails: every failure reads as
// not live.
func (p *Prober) Probe(ctx context.Context, name string) (Metadata, bool) {
	out, err := p.run(ctx, name)
	if err != nil {
		p.log.Debug().Err(err).Str("streamer", name).Msg("probe: tool failed")
		return Metadata{}, false
	}
	var doc toolOutput
	if err := json.Unmarshal(out, &doc); err != nil {
		p.log.Debug().Err(err).Str("streamer", name).Msg("probe: malformed output")
		return Metadata{}, false
	}
	if doc.Error != nil || len(doc.Streams) == 0 {
		return Metadata{}, false
	}
	md := Metadata{Live: true, Title: DefaultTitle, Qualities: RankQualities(keys(doc.Streams))}
	if doc.Metadata != nil {
		if doc.Metadata.Title != nil {
			md.Title = *doc.Metadata.Title
		}
		if doc.Metadata.Author != nil {
			md.Author = *doc.Metadata.Author
		}
		if doc.Metadata.Category != nil {
			md.Category = *doc.Metadata.Category
		}
	}
	return md, true
}

// ListQualities returns the ranked qualities of a live streamer, Offline when
// the tool reports no playable streams, or an *Error when the tool itself failed.
func (p *Prober) ListQualities(ctx context.Context, name string) (QualityList, error) {
	out, runErr := p.run(ctx, name)
	var doc toolOutput
	if err := json.Unmarshal(out, &doc); err != nil {
		if runErr != nil {
			return QualityList{}, &Error{Msg: "CLI failed: " + runErr.Error()}
		}
		return QualityList{}, &Error{Msg: "malformed output: " + err.Error()}
	}
	// streamlink exits non-zero for "no playable streams" but still emits
	// its JSON error marker, which means offline rather than a failure.
	if doc.Error != nil || len(doc.Streams) == 0 {
		return QualityList{Status: Offline}, nil
	}
	if runErr != nil {
		return QualityList{}, &Error{Msg: "CLI failed: " + runErr.Error()}
	}
	return QualityList{Status: Online, Qualities: RankQualities(keys(doc.Streams))}, nil
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
