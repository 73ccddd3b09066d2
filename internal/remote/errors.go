package remote

import "fmt"

// StatusError is returned when the API answers with a non-2xx status.
// The body is kept for diagnostics.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("API request failed with status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("API request failed with status %d", e.Code)
}

// IsServerError reports whether the status indicates a server-side failure.
func (e *StatusError) IsServerError() bool {
	return e.Code >= 500
}
