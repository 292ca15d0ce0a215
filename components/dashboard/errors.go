package dashboard

import (
	"errors"
	"fmt"
)

const (
	// OpFetchOverview identifies the overview request.
	OpFetchOverview = "fetch_overview"
	// OpSeed identifies the demo seed request.
	OpSeed = "seed"
	// OpPing identifies the health probe.
	OpPing = "ping"
)

const (
	msgLoadFailed = "Failed to load analytics"
	msgSeedFailed = "Failed to seed data"
)

var errMissingClient = errors.New("dashboard: overview client not configured")

// HTTPStatusError is returned when the backend answers with a non-2xx status.
type HTTPStatusError struct {
	Op         string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("dashboard: %s returned status %d", e.Op, e.StatusCode)
}

// TransportError is returned when a request could not complete or its body
// could not be consumed.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("dashboard: %s failed", e.Op)
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// displayMessage collapses an operation error into the banner text.
func displayMessage(op string, err error) string {
	if err == nil {
		return ""
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if op == OpSeed {
			return msgSeedFailed
		}
		return msgLoadFailed
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		if msg := transportErr.Error(); msg != "" {
			return msg
		}
	}
	return err.Error()
}
