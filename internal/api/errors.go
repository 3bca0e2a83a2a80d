package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when no access token is available. No
// request is sent in that case.
var ErrNotAuthenticated = errors.New("no active session, please sign in")

// Error is a non-2xx response from the assessment API.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status of err when it is an *Error, else 0.
func StatusCode(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

// InvalidResponseError indicates a 2xx response whose body does not have the
// expected shape.
type InvalidResponseError struct {
	Endpoint string
	Content  json.RawMessage
	Err      error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response from %s: %v", e.Endpoint, e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// UserMessage returns the text to show for err in an alert. Errors from
// the server carry their own message; other errors are shown as they are.
func UserMessage(err error) string {
	var ae *Error
	var ie *InvalidResponseError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ae):
		return ae.Message
	case errors.Is(err, ErrNotAuthenticated):
		return "Your session has expired. Please sign in again."
	case errors.As(err, &ie):
		return "The server sent a response this client does not understand."
	}
	return err.Error()
}
