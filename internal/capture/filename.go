package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// fallbackFilename is used when a template renders to nothing.
const fallbackFilename = "recording"

// SanitizeTitle keeps letters, digits, spaces, hyphens and underscores.
// Every other character acts as a word separator; runs of separators collapse
// to one space and the ends are trimmed.
func SanitizeTitle(title string) string {
	var b strings.Builder
	pendingSpace := false
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// RenderFilename substitutes {author}, {title}, {date}, {time} and {HH} in tmpl.
// The title is sanitized first. Unknown placeholders are left as written.
func RenderFilename(tmpl, author, title string, now time.Time) string {
	r := strings.NewReplacer(
		"{author}", author,
		"{title}", SanitizeTitle(title),
		"{date}", now.Format("2006-01-02"),
		"{time}", now.Format("15-04"),
		"{HH}", now.Format("15"),
	)
	name := strings.TrimSpace(r.Replace(tmpl))
	// the template must not be able to climb out of the streamer directory
	name = strings.ReplaceAll(name, string(filepath.Separator), "_")
	if name == "" || name == "." || name == ".." {
		return fallbackFilename
	}
	return name
}

// OutputPath returns <root>/<streamer>/<filename>.<ext>, creating the
// streamer directory on demand.
func OutputPath(root, streamer, filename, ext string) (string, error) {
	dir := filepath.Join(root, streamer)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", dir, err)
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "mp4"
	}
	return filepath.Join(dir, filename+"."+ext), nil
}
