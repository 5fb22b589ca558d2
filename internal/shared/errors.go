package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")

	// API and service errors
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrUpstream         = fmt.Errorf("upstream request failed")
	ErrRateLimited      = fmt.Errorf("rate limited")

	// Input validation errors
	ErrInvalidInput = fmt.Errorf("invalid input")
)

// APIError is a structured catalog error. It wraps one of the kind
// sentinels above so callers can branch with [errors.Is] while the
// contextual fields stay available for actionable messages.
type APIError struct {
	Kind       error  // One of ErrAuthFailed, ErrPlaylistNotFound, ErrUpstream, ErrRateLimited
	PlaylistID string
	Offset     int
	Status     int // HTTP status, 0 for network failures
	RetryAfter int // Seconds from a 429 Retry-After header, 0 otherwise
	Detail     string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%v: playlist %s", e.Kind, e.PlaylistID)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Offset > 0 {
		msg = fmt.Sprintf("%s at offset %d", msg, e.Offset)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Kind
}
