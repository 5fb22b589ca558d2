// package shared defines shared helpers
package shared

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// FormatDuration renders a millisecond duration as m:ss.
func FormatDuration(ms int) string {
	totalSeconds := ms / 1000
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}

// ParsePlaylistID extracts a playlist ID from user input.
//
// Accepts a bare ID, an open.spotify.com playlist URL (the path segment
// following /playlist/, trailing query stripped), or a spotify:playlist:
// URI. Returns [ErrInvalidInput] when no ID can be extracted.
func ParsePlaylistID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: empty playlist identifier", ErrInvalidInput)
	}

	if strings.HasPrefix(input, "spotify:playlist:") {
		id := strings.TrimPrefix(input, "spotify:playlist:")
		if id == "" {
			return "", fmt.Errorf("%w: empty playlist URI", ErrInvalidInput)
		}
		return id, nil
	}

	if strings.Contains(input, "/playlist/") {
		u, err := url.Parse(input)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		parts := strings.Split(u.Path, "/playlist/")
		id := strings.Trim(parts[len(parts)-1], "/")
		if idx := strings.IndexAny(id, "/?"); idx >= 0 {
			id = id[:idx]
		}
		if id == "" {
			return "", fmt.Errorf("%w: playlist URL has no ID segment", ErrInvalidInput)
		}
		return id, nil
	}

	if strings.ContainsAny(input, "/:?&") {
		return "", fmt.Errorf("%w: %q does not look like a playlist ID or URL", ErrInvalidInput, input)
	}

	return input, nil
}
