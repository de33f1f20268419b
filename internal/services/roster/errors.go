package roster

import (
	"fmt"
	"net/http"
)

// AttemptError describes one failed request against a roster source.
type AttemptError struct {
	Endpoint string
	Status   int // zero when no response was received
	Err      error
}

func (e *AttemptError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Endpoint, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d (%s)", e.Endpoint, e.Status, http.StatusText(e.Status))
	default:
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
	}
}

func (e *AttemptError) Unwrap() error {
	return e.Err
}
