package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuth             = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// Catalog errors
	ErrIO                = fmt.Errorf("catalog request failed")
	ErrProtocol          = fmt.Errorf("unexpected catalog response")
	ErrMalformedResponse = fmt.Errorf("malformed catalog response")
	ErrNotFound          = fmt.Errorf("no matching catalog entry")

	// Playback errors
	ErrNoPreview     = fmt.Errorf("track has no preview")
	ErrNotPlaying    = fmt.Errorf("no preview is playing")
	ErrPlayerFailed  = fmt.Errorf("player failed")
	ErrSessionClosed = fmt.Errorf("playback session closed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)

// StatusError records a non-2xx response from the catalog service.
//
// It matches [ErrProtocol] with errors.Is, and [ErrAuth] as well when the status is 401.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrProtocol:
		return true
	case ErrAuth:
		return e.StatusCode == 401
	default:
		return false
	}
}

// FieldError records a required JSON field that was missing or had the wrong shape.
//
// It matches both [ErrMalformedResponse] and [ErrProtocol].
type FieldError struct {
	Path string
	Want string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: field %q missing or not a %s", ErrMalformedResponse, e.Path, e.Want)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrMalformedResponse || target == ErrProtocol
}
