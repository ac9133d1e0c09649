package sindri

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies an APIError so that callers can branch on the
// failure mode instead of parsing error messages.
type ErrorKind int

const (
	// KindInvalidConfiguration indicates a bad base URL, empty API key or
	// out-of-range verbose level. Raised before any network call.
	KindInvalidConfiguration ErrorKind = iota
	// KindResourceNotFound indicates a local upload path that does not
	// exist. Raised before any network call.
	KindResourceNotFound
	// KindConnection indicates the API was unreachable after all
	// transport-level retries were exhausted.
	KindConnection
	// KindAuth indicates an HTTP 401 response (rejected API key).
	KindAuth
	// KindNotFound indicates an HTTP 404 response.
	KindNotFound
	// KindMalformedResponse indicates a response body that was not JSON or
	// was missing an expected field.
	KindMalformedResponse
	// KindSubmission indicates a create request that did not return 201.
	KindSubmission
	// KindRemoteFailure indicates a job that reached the Failed status, or
	// an otherwise unexpected HTTP status on a non-create request. The
	// remote error text is attached verbatim when available.
	KindRemoteFailure
	// KindPollTimeout indicates the polling iteration budget was exhausted
	// while the job was still non-terminal.
	KindPollTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidConfiguration:
		return "InvalidConfiguration"
	case KindResourceNotFound:
		return "ResourceNotFound"
	case KindConnection:
		return "Connection"
	case KindAuth:
		return "Auth"
	case KindNotFound:
		return "NotFound"
	case KindMalformedResponse:
		return "MalformedResponse"
	case KindSubmission:
		return "Submission"
	case KindRemoteFailure:
		return "RemoteFailure"
	case KindPollTimeout:
		return "PollTimeout"
	default:
		return "Unknown"
	}
}

// APIError is the single error type surfaced by every operation in this
// package. The Kind field distinguishes the failure modes.
//
// Kind: The failure classification
// Message: Human-readable description
// StatusCode: HTTP status of the offending response, 0 if none was received
// Body: Raw response body, empty if none was received
// Cause: Underlying error, if any
type APIError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Body       string
	Cause      error
}

func newError(kind ErrorKind, message string) *APIError {
	return &APIError{Kind: kind, Message: message}
}

func newErrorWithCause(kind ErrorKind, message string, cause error) *APIError {
	return &APIError{Kind: kind, Message: message, Cause: cause}
}

func newHTTPError(kind ErrorKind, message string, statusCode int, body []byte) *APIError {
	return &APIError{Kind: kind, Message: message, StatusCode: statusCode, Body: string(body)}
}

func (e *APIError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Kind.String(), e.Message))

	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status: %d", e.StatusCode))
	}

	if e.Body != "" {
		parts = append(parts, fmt.Sprintf("response: %s", e.Body))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}
