// Package auth talks to the hosted authentication provider. The client
// speaks the GoTrue REST dialect and keeps the session in the local store.
package auth

import "context"

// Credentials identify an account.
type Credentials struct {
	Email    string
	Password string
}

// Gateway is the authentication provider as seen by the rest of the client.
type Gateway interface {
	// Session returns the current session, refreshing it when the access
	// token has expired. It returns nil, nil when nobody is signed in.
	Session(ctx context.Context) (*Session, error)

	// AccessToken returns a currently valid access token or ErrNotAuthenticated.
	AccessToken(ctx context.Context) (string, error)

	SignIn(ctx context.Context, creds Credentials) (*Session, error)
	SignUp(ctx context.Context, creds Credentials, fullName string) (*Session, error)
	SignOut(ctx context.Context) error

	// ResetPasswordForEmail sends a one-time recovery code to email.
	ResetPasswordForEmail(ctx context.Context, email string) error

	// VerifyOTP exchanges a recovery code for a session.
	VerifyOTP(ctx context.Context, email, code string) (*Session, error)

	// UpdatePassword sets a new password for the signed-in user.
	UpdatePassword(ctx context.Context, email, password string) error
}
