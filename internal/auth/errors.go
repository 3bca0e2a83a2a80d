package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned when an operation needs a session
	// and none is available.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrConfirmationRequired is returned by SignUp when the account was
	// created but the gateway wants the email confirmed before a session
	// is issued.
	ErrConfirmationRequired = errors.New("check your email to confirm your account")
)

// Error is a failure reported by the auth gateway. Message is suitable for
// showing to the user as-is.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// ValidationError reports input rejected before any request was made.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsAuthError reports whether err carries a gateway error.
func IsAuthError(err error) bool {
	var ae *Error
	return errors.As(err, &ae)
}

// UserMessage returns the text to show for err on an auth screen: the
// gateway's message, the validation failure, or a generic network hint.
func UserMessage(err error) string {
	var ae *Error
	var ve *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ae) && ae.Message != "":
		return ae.Message
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, ErrNotAuthenticated):
		return "Your session has expired. Please sign in again."
	}
	return "Could not reach the sign-in service. Please try again."
}
