package service

import (
	"errors"
	"fmt"
)

// ErrFileRequired marks a request rejected before any external call was made.
var ErrFileRequired = errors.New("image file is required")

// UpstreamError wraps a failure in one of the external dependencies the
// upload flow touches (presigner, storage PUT, datastore). Op names the step
// for the log line; callers map every UpstreamError to the same generic
// response.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
