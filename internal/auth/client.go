package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/scholarai/scholar/internal/logging"
	"github.com/scholarai/scholar/internal/store"
)

// Options configures a Client.
type Options struct {
	// BaseURL is the project URL; requests go to BaseURL + "/auth/v1".
	BaseURL string
	// APIKey is the public (anon) key sent as the apikey header.
	APIKey string
	// Cache persists the session between runs.
	Cache store.SessionStore

	HTTPClient *http.Client
	Logger     *zap.SugaredLogger
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Client is the HTTP implementation of Gateway.
type Client struct {
	baseURL string
	apiKey  string
	cache   store.SessionStore
	http    *http.Client
	log     *zap.SugaredLogger
	now     func() time.Time

	// mu serializes refreshes so concurrent callers do not spend the same
	// refresh token twice.
	mu sync.Mutex
}

var _ Gateway = (*Client)(nil)

// New creates a gateway client.
func New(opts Options) *Client {
	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/") + "/auth/v1",
		apiKey:  opts.APIKey,
		cache:   opts.Cache,
		http:    opts.HTTPClient,
		log:     logging.OrNop(opts.Logger),
		now:     opts.Now,
	}
	if c.cache == nil {
		c.cache = &store.MemorySessions{}
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

func (c *Client) Session(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.load(ctx)
	if err != nil || s == nil {
		return nil, err
	}
	if !s.Expired(c.now()) {
		return s, nil
	}

	if s.RefreshToken == "" {
		c.log.Infow("session expired without refresh token", "user", s.User.ID)
		return nil, c.cache.ClearSession(ctx)
	}

	res, err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", map[string]string{
		"refresh_token": s.RefreshToken,
	})
	if err != nil {
		if IsAuthError(err) {
			c.log.Warnw("session refresh rejected", "user", s.User.ID, "error", err)
			return nil, c.cache.ClearSession(ctx)
		}
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	return c.storeSession(ctx, res)
}

func (c *Client) AccessToken(ctx context.Context) (string, error) {
	s, err := c.Session(ctx)
	if err != nil {
		return "", err
	}
	if s == nil || s.AccessToken == "" {
		return "", ErrNotAuthenticated
	}
	return s.AccessToken, nil
}

func (c *Client) SignIn(ctx context.Context, creds Credentials) (*Session, error) {
	if err := validateCredentials(creds); err != nil {
		return nil, err
	}
	res, err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", map[string]string{
		"email":    strings.TrimSpace(creds.Email),
		"password": creds.Password,
	})
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storeSession(ctx, res)
}

func (c *Client) SignUp(ctx context.Context, creds Credentials, fullName string) (*Session, error) {
	if strings.TrimSpace(fullName) == "" {
		return nil, &ValidationError{Field: "full name", Err: errors.New("is required")}
	}
	if err := validateCredentials(creds); err != nil {
		return nil, err
	}
	res, err := c.do(ctx, http.MethodPost, "/signup", "", map[string]any{
		"email":    strings.TrimSpace(creds.Email),
		"password": creds.Password,
		"data":     map[string]string{"full_name": strings.TrimSpace(fullName)},
	})
	if err != nil {
		return nil, err
	}
	if res.Get("access_token").String() == "" {
		return nil, ErrConfirmationRequired
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storeSession(ctx, res)
}

// SignOut revokes the session remotely when possible and always forgets it
// locally.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.load(ctx)
	if err != nil {
		return err
	}
	if s != nil && s.AccessToken != "" {
		if _, err := c.do(ctx, http.MethodPost, "/logout", s.AccessToken, nil); err != nil {
			c.log.Warnw("remote sign out failed", "error", err)
		}
	}
	return c.cache.ClearSession(ctx)
}

func (c *Client) ResetPasswordForEmail(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodPost, "/recover", "", map[string]string{
		"email": strings.TrimSpace(email),
	})
	return err
}

func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*Session, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if len(code) != 6 {
		return nil, &ValidationError{Field: "code", Err: errors.New("must be 6 digits")}
	}
	res, err := c.do(ctx, http.MethodPost, "/verify", "", map[string]string{
		"type":  "recovery",
		"email": strings.TrimSpace(email),
		"token": code,
	})
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storeSession(ctx, res)
}

func (c *Client) UpdatePassword(ctx context.Context, email, password string) error {
	if password == "" {
		return &ValidationError{Field: "password", Err: errors.New("is required")}
	}
	token, err := c.AccessToken(ctx)
	if err != nil {
		return err
	}
	body := map[string]string{"password": password}
	if email = strings.TrimSpace(email); email != "" {
		body["email"] = email
	}
	_, err = c.do(ctx, http.MethodPut, "/user", token, body)
	return err
}

func (c *Client) load(ctx context.Context) (*Session, error) {
	data, err := c.cache.LoadSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		c.log.Warnw("discarding unreadable session cache", "error", err)
		return nil, c.cache.ClearSession(ctx)
	}
	return &s, nil
}

// storeSession decodes a token response and persists it. Callers hold c.mu.
func (c *Client) storeSession(ctx context.Context, res gjson.Result) (*Session, error) {
	s, err := c.decodeSession(res)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := c.cache.SaveSession(ctx, data); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

func (c *Client) decodeSession(res gjson.Result) (*Session, error) {
	s := &Session{
		AccessToken:  res.Get("access_token").String(),
		RefreshToken: res.Get("refresh_token").String(),
	}
	if s.AccessToken == "" {
		return nil, &Error{Message: "the auth service did not return a session"}
	}

	switch {
	case res.Get("expires_at").Exists():
		s.ExpiresAt = time.Unix(res.Get("expires_at").Int(), 0)
	case res.Get("expires_in").Exists():
		s.ExpiresAt = c.now().Add(time.Duration(res.Get("expires_in").Int()) * time.Second)
	default:
		if claims, err := ParseClaims(s.AccessToken); err == nil {
			s.ExpiresAt = claims.ExpiresAt
		}
	}

	u := res.Get("user")
	s.User = Identity{
		ID:       u.Get("id").String(),
		Email:    u.Get("email").String(),
		FullName: firstString(u, "user_metadata.full_name", "user_metadata.name"),
	}
	if s.User.ID == "" || s.User.Email == "" {
		if claims, err := ParseClaims(s.AccessToken); err == nil {
			if s.User.ID == "" {
				s.User.ID = claims.Subject
			}
			if s.User.Email == "" {
				s.User.Email = claims.Email
			}
		}
	}
	return s, nil
}

// do sends a JSON request to the gateway. bearer defaults to the API key.
func (c *Client) do(ctx context.Context, method, path, bearer string, body any) (gjson.Result, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("marshalling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return gjson.Result{}, err
	}
	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("auth service not reachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read auth response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return gjson.Result{}, decodeError(resp.StatusCode, data)
	}
	return gjson.ParseBytes(data), nil
}

func decodeError(status int, data []byte) *Error {
	res := gjson.ParseBytes(data)
	msg := firstString(res, "msg", "error_description", "message", "error")
	if msg == "" {
		msg = fmt.Sprintf("authentication failed with status %d", status)
	}
	return &Error{Status: status, Code: res.Get("error_code").String(), Message: msg}
}

func firstString(res gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := res.Get(p); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return &ValidationError{Field: "email", Err: errors.New("is not a valid address")}
	}
	return nil
}

func validateCredentials(creds Credentials) error {
	if err := validateEmail(creds.Email); err != nil {
		return err
	}
	if creds.Password == "" {
		return &ValidationError{Field: "password", Err: errors.New("is required")}
	}
	return nil
}
