package client

import (
	"errors"
	"fmt"
)

// UpstreamError is the typed failure surfaced for any backend call:
// network error, timeout, non-success status, or an unparseable body.
// It never hides behind a silent nil result. StatusCode is zero when
// the failure happened before any HTTP status was received.
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream returned HTTP %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// httpStatusError carries the status of the last failed attempt up
// through the retry wrapper so the typed error can surface it.
type httpStatusError struct {
	code int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.code)
}

func newUpstreamError(op string, err error) *UpstreamError {
	ue := &UpstreamError{Op: op, Err: err}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		ue.StatusCode = statusErr.code
	}
	return ue
}
