package api

import (
	"errors"
	"fmt"
)

// ErrSiteNotFound reports a site key that its parent customer's
// portfolio overview does not contain.
var ErrSiteNotFound = errors.New("site not found in portfolio overview")

// TransportError wraps a request that never completed or came back
// with an unexpected status. StatusCode is zero when no response
// arrived at all.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: request to %s failed: %v", e.Op, e.URL, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s: %s returned HTTP %d: %s", e.Op, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %s returned HTTP %d", e.Op, e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthError means the platform rejected the session (401 or 403).
// Refreshing the COOKIE, AE_S and AE_V values is the usual fix.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authentication failed (HTTP %d)", e.StatusCode)
	}
	return fmt.Sprintf("authentication failed (HTTP %d): %s", e.StatusCode, e.Message)
}

// ValidationError reports a malformed caller-supplied parameter. It is
// raised before any request leaves the process.
type ValidationError struct {
	Param   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Param, e.Value, e.Message)
}
