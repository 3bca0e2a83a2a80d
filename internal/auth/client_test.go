package auth_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarai/scholar/internal/apitest"
	"github.com/scholarai/scholar/internal/auth"
	"github.com/scholarai/scholar/internal/store"
)

func newClient(t *testing.T, fake *apitest.Auth, cache store.SessionStore) *auth.Client {
	t.Helper()
	return auth.New(auth.Options{
		BaseURL:    fake.URL(),
		APIKey:     fake.APIKey,
		Cache:      cache,
		HTTPClient: http.DefaultClient,
	})
}

func TestSignInPersistsSession(t *testing.T) {
	fake := apitest.NewAuth(t)
	id := fake.AddUser("ada@example.com", "engine", "Ada Lovelace")
	cache := &store.MemorySessions{}
	c := newClient(t, fake, cache)
	ctx := context.Background()

	s, err := c.SignIn(ctx, auth.Credentials{Email: "ada@example.com", Password: "engine"})
	require.NoError(t, err)
	assert.Equal(t, id, s.User.ID)
	assert.Equal(t, "Ada Lovelace", s.User.FullName)

	// A fresh client over the same cache sees the session.
	restored, err := newClient(t, fake, cache).Session(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, s.AccessToken, restored.AccessToken)

	u, err := restored.ToUser()
	require.NoError(t, err)
	assert.Equal(t, "AL", u.Avatar)
	assert.Equal(t, "sess-"+id[:8], u.SessionHash)
}

func TestSignInWrongPassword(t *testing.T) {
	fake := apitest.NewAuth(t)
	fake.AddUser("ada@example.com", "engine", "Ada Lovelace")
	c := newClient(t, fake, nil)

	_, err := c.SignIn(context.Background(), auth.Credentials{Email: "ada@example.com", Password: "nope"})
	var ae *auth.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "Invalid login credentials", ae.Message)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
}

func TestSignInValidatesBeforeCalling(t *testing.T) {
	fake := apitest.NewAuth(t)
	c := newClient(t, fake, nil)

	_, err := c.SignIn(context.Background(), auth.Credentials{Email: "not-an-email", Password: "x"})
	var ve *auth.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "email", ve.Field)
	assert.Zero(t, fake.Calls("/token"))
}

func TestNoSession(t *testing.T) {
	fake := apitest.NewAuth(t)
	c := newClient(t, fake, nil)
	ctx := context.Background()

	s, err := c.Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = c.AccessToken(ctx)
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestExpiredSessionIsRefreshed(t *testing.T) {
	fake := apitest.NewAuth(t)
	fake.AddUser("ada@example.com", "engine", "Ada Lovelace")
	fake.TTL = time.Second // inside the refresh skew, so always "expired"
	c := newClient(t, fake, nil)
	ctx := context.Background()

	first, err := c.SignIn(ctx, auth.Credentials{Email: "ada@example.com", Password: "engine"})
	require.NoError(t, err)

	fake.TTL = time.Hour
	refreshed, err := c.Session(ctx)
	require.NoError(t, err)
	require.NotNil(t, refreshed)
	assert.NotEqual(t, first.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, 2, fake.Calls("/token"))
}

func TestRejectedRefreshClearsSession(t *testing.T) {
	fake := apitest.NewAuth(t)
	fake.AddUser("ada@example.com", "engine", "Ada Lovelace")
	cache := &store.MemorySessions{}
	ctx := context.Background()
	require.NoError(t, cache.SaveSession(ctx, []byte(`{
		"access_token": "stale",
		"refresh_token": "unknown",
		"expires_at": "2001-01-01T00:00:00Z",
		"user": {"id": "u1", "email": "ada@example.com", "full_name": "Ada Lovelace"}
	}`)))
	c := newClient(t, fake, cache)

	s, err := c.Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
	data, _ := cache.LoadSession(ctx)
	assert.Nil(t, data)
}

func TestSignUp(t *testing.T) {
	fake := apitest.NewAuth(t)
	c := newClient(t, fake, nil)
	ctx := context.Background()

	s, err := c.SignUp(ctx, auth.Credentials{Email: "grace@example.com", Password: "cobol"}, "Grace Hopper")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", s.User.FullName)

	_, err = c.SignUp(ctx, auth.Credentials{Email: "grace@example.com", Password: "cobol"}, "Grace Hopper")
	var ae *auth.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "User already registered", ae.Message)

	_, err = c.SignUp(ctx, auth.Credentials{Email: "x@example.com", Password: "p"}, "  ")
	var ve *auth.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestSignUpNeedsConfirmation(t *testing.T) {
	fake := apitest.NewAuth(t)
	fake.AutoConfirm = false
	c := newClient(t, fake, nil)

	_, err := c.SignUp(context.Background(), auth.Credentials{Email: "grace@example.com", Password: "cobol"}, "Grace Hopper")
	assert.ErrorIs(t, err, auth.ErrConfirmationRequired)
}

func TestSignOutClearsCache(t *testing.T) {
	fake := apitest.NewAuth(t)
	fake.AddUser("ada@example.com", "engine", "Ada Lovelace")
	cache := &store.MemorySessions{}
	c := newClient(t, fake, cache)
	ctx := context.Background()

	_, err := c.SignIn(ctx, auth.Credentials{Email: "ada@example.com", Password: "engine"})
	require.NoError(t, err)
	require.NoError(t, c.SignOut(ctx))

	assert.Equal(t, 1, fake.Calls("/logout"))
	s, err := c.Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestPasswordRecovery(t *testing.T) {
	fake := apitest.NewAuth(t)
	fake.AddUser("ada@example.com", "engine", "Ada Lovelace")
	c := newClient(t, fake, nil)
	ctx := context.Background()

	require.NoError(t, c.ResetPasswordForEmail(ctx, "ada@example.com"))

	_, err := c.VerifyOTP(ctx, "ada@example.com", "12345")
	var ve *auth.ValidationError
	require.True(t, errors.As(err, &ve))

	_, err = c.VerifyOTP(ctx, "ada@example.com", "654321")
	assert.True(t, auth.IsAuthError(err))

	require.NoError(t, c.ResetPasswordForEmail(ctx, "ada@example.com"))
	s, err := c.VerifyOTP(ctx, "ada@example.com", apitest.RecoveryCode)
	require.NoError(t, err)
	require.NotNil(t, s)

	require.NoError(t, c.UpdatePassword(ctx, "ada@example.com", "analytical"))
	assert.Equal(t, "analytical", fake.Password("ada@example.com"))

	err = c.UpdatePassword(ctx, "ada@example.com", "analytical")
	assert.True(t, auth.IsAuthError(err))
}

func TestUpdatePasswordRequiresSession(t *testing.T) {
	fake := apitest.NewAuth(t)
	c := newClient(t, fake, nil)

	err := c.UpdatePassword(context.Background(), "ada@example.com", "x")
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", auth.UserMessage(nil))
	assert.Equal(t, "Invalid login credentials",
		auth.UserMessage(fmt.Errorf("sign in: %w", &auth.Error{Status: 400, Message: "Invalid login credentials"})))
	assert.Equal(t, "email: is not a valid address",
		auth.UserMessage(&auth.ValidationError{Field: "email", Err: errors.New("is not a valid address")}))
	assert.Contains(t, auth.UserMessage(auth.ErrNotAuthenticated), "sign in again")
	assert.Contains(t, auth.UserMessage(errors.New("dial tcp: refused")), "Could not reach")
}
