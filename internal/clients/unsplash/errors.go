package unsplash

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned before any network I/O when no access key is set.
var ErrNotConfigured = errors.New("unsplash: access key not configured")

// maxErrorBody caps how much of an upstream error body is kept.
const maxErrorBody = 512

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "unsplash http error"
	}
	if e.Body == "" {
		return fmt.Sprintf("unsplash http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("unsplash http error: status=%d body=%s", e.StatusCode, e.Body)
}

// Temporary reports whether retrying later might succeed.
func (e *HTTPError) Temporary() bool {
	return e != nil && (e.StatusCode == 429 || e.StatusCode >= 500)
}
