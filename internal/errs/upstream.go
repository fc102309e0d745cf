package errs

import (
	"fmt"
	"net/http"
)

// Op names the stage of a prediction call that failed.
type Op string

const (
	OpRequest Op = "request" // building or sending the outbound request
	OpStatus  Op = "status"  // upstream answered with a non-2xx status
	OpRead    Op = "read"    // reading the response body
	OpDecode  Op = "decode"  // body is not valid JSON
	OpEncode  Op = "encode"  // re-serializing the decoded payload
)

// UpstreamError is the single failure kind of a prediction call: network
// errors, non-success statuses and JSON errors all end up here.
type UpstreamError struct {
	Op Op

	// StatusCode is set for OpStatus only.
	StatusCode int

	Err error
}

// NewUpstreamError wraps err as a failure of the given stage.
func NewUpstreamError(op Op, err error) *UpstreamError {
	return &UpstreamError{Op: op, Err: err}
}

// NewStatusError reports a non-2xx upstream status.
func NewStatusError(statusCode int) *UpstreamError {
	return &UpstreamError{Op: OpStatus, StatusCode: statusCode}
}

func (e *UpstreamError) Error() string {
	switch e.Op {
	case OpStatus:
		reason := http.StatusText(e.StatusCode)
		if reason == "" {
			reason = "Unknown Status"
		}
		return fmt.Sprintf("HTTP Error %d: %s", e.StatusCode, reason)
	case OpDecode:
		return "invalid JSON response: " + e.cause()
	case OpRead:
		return "failed to read response: " + e.cause()
	case OpEncode:
		return "failed to encode response: " + e.cause()
	default:
		return e.cause()
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is matches any *UpstreamError, like HTTPError.Is.
func (e *UpstreamError) Is(target error) bool {
	_, ok := target.(*UpstreamError)

	return ok
}

func (e *UpstreamError) cause() string {
	if e.Err == nil {
		return string(e.Op) + " failed"
	}
	return e.Err.Error()
}
