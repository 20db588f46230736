package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an API failure by its originating condition.
type ErrorKind string

// Error kind constants.
const (
	KindNetwork        ErrorKind = "network"
	KindTimeout        ErrorKind = "timeout"
	KindAuthentication ErrorKind = "authentication"
	KindAuthorization  ErrorKind = "authorization"
	KindValidation     ErrorKind = "validation"
	KindNotFound       ErrorKind = "not_found"
	KindServer         ErrorKind = "server"
	KindUnknown        ErrorKind = "unknown"
)

// APIError is the typed failure returned by the storefront API client.
// StatusCode is zero when no response was received.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Details    json.RawMessage
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Kind, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// errorBody is the error payload shape the storefront API responds with.
type errorBody struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Details json.RawMessage `json:"details"`
	Errors  json.RawMessage `json:"errors"`
}

// classifyStatus maps a non-2xx response to an APIError, attaching any
// server-provided message and details payload.
func classifyStatus(status int, body []byte) *APIError {
	var payload errorBody
	_ = json.Unmarshal(body, &payload) //nolint:errcheck // best-effort error parsing

	message := payload.Message
	if message == "" {
		message = payload.Error
	}
	if message == "" {
		message = http.StatusText(status)
	}

	details := payload.Details
	if details == nil {
		details = payload.Errors
	}

	apiErr := &APIError{StatusCode: status, Message: message, Details: details}

	switch {
	case status == http.StatusBadRequest:
		apiErr.Kind = KindValidation
	case status == http.StatusUnauthorized:
		apiErr.Kind = KindAuthentication
	case status == http.StatusForbidden:
		apiErr.Kind = KindAuthorization
	case status == http.StatusNotFound:
		apiErr.Kind = KindNotFound
	case status == http.StatusRequestTimeout:
		apiErr.Kind = KindTimeout
	case status >= 500:
		apiErr.Kind = KindServer
	default:
		apiErr.Kind = KindUnknown
	}

	return apiErr
}

// classifyTransport maps a transport-level failure (no response
// received) to an APIError: deadline and cancellation become timeouts,
// everything else is a network failure.
func classifyTransport(err error) *APIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Kind: KindTimeout, Message: "request timeout"}
	}
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return &APIError{Kind: KindTimeout, Message: "request timeout"}
	}
	return &APIError{Kind: KindNetwork, Message: "network connection failed"}
}

// AsAPIError unwraps err into an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// IsAuthError reports whether err is an authentication or authorization failure.
func IsAuthError(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && (apiErr.Kind == KindAuthentication || apiErr.Kind == KindAuthorization)
}

// IsNetworkError reports whether err is a transport-level failure.
func IsNetworkError(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == KindNetwork
}

// IsValidationError reports whether err is an HTTP 400 validation failure.
func IsValidationError(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == KindValidation
}
