package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RecoveryCode is the one-time code the fake gateway sends for every
// recovery request.
const RecoveryCode = "123456"

type account struct {
	id       string
	email    string
	password string
	fullName string
}

// Auth is a fake GoTrue-compatible auth gateway.
type Auth struct {
	Server *httptest.Server
	APIKey string
	// TTL is the lifetime of issued access tokens.
	TTL time.Duration
	// AutoConfirm issues a session on sign-up instead of requiring email
	// confirmation.
	AutoConfirm bool

	mu       sync.Mutex
	accounts map[string]*account
	refresh  map[string]string // refresh token -> email
	recovery map[string]bool
	calls    map[string]int
}

// NewAuth starts a fake gateway. It is closed when the test ends.
func NewAuth(t testing.TB) *Auth {
	t.Helper()
	a := &Auth{
		APIKey:      "anon-key",
		TTL:         time.Hour,
		AutoConfirm: true,
		accounts:    make(map[string]*account),
		refresh:     make(map[string]string),
		recovery:    make(map[string]bool),
		calls:       make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(a.requireKey)
	r.Route("/auth/v1", func(r chi.Router) {
		r.Post("/token", a.token)
		r.Post("/signup", a.signup)
		r.Post("/logout", a.logout)
		r.Post("/recover", a.recover)
		r.Post("/verify", a.verify)
		r.Put("/user", a.updateUser)
	})

	a.Server = httptest.NewServer(r)
	t.Cleanup(a.Server.Close)
	return a
}

// URL returns the server's base URL.
func (a *Auth) URL() string { return a.Server.URL }

// AddUser registers an account.
func (a *Auth) AddUser(email, password, fullName string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := uuid.NewString()
	a.accounts[strings.ToLower(email)] = &account{id: id, email: email, password: password, fullName: fullName}
	return id
}

// Calls returns how often the endpoint (e.g. "/token") was hit.
func (a *Auth) Calls(endpoint string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[endpoint]
}

// Password returns the current password of email.
func (a *Auth) Password(email string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if acc, ok := a.accounts[strings.ToLower(email)]; ok {
		return acc.password
	}
	return ""
}

// IssueToken signs an access token for the account, expiring after ttl.
func (a *Auth) IssueToken(email string, ttl time.Duration) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc := a.accounts[strings.ToLower(email)]
	if acc == nil {
		return ""
	}
	return a.sign(acc, time.Now().Add(ttl))
}

func (a *Auth) sign(acc *account, exp time.Time) string {
	claims := jwt.MapClaims{
		"sub":        acc.id,
		"email":      acc.email,
		"session_id": "sess-" + acc.id[:8],
		"exp":        exp.Unix(),
	}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	return tok
}

func (a *Auth) sessionFor(acc *account) map[string]any {
	exp := time.Now().Add(a.TTL)
	rt := uuid.NewString()
	a.refresh[rt] = strings.ToLower(acc.email)
	return map[string]any{
		"access_token":  a.sign(acc, exp),
		"token_type":    "bearer",
		"expires_in":    int(a.TTL.Seconds()),
		"expires_at":    exp.Unix(),
		"refresh_token": rt,
		"user": map[string]any{
			"id":            acc.id,
			"email":         acc.email,
			"user_metadata": map[string]any{"full_name": acc.fullName},
		},
	}
}

func (a *Auth) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		a.calls[strings.TrimPrefix(r.URL.Path, "/auth/v1")]++
		a.mu.Unlock()
		if r.Header.Get("apikey") != a.APIKey {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid API key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decodeBody(r *http.Request) map[string]any {
	body := map[string]any{}
	data, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(data, &body)
	return body
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func (a *Auth) token(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	a.mu.Lock()
	defer a.mu.Unlock()

	switch r.URL.Query().Get("grant_type") {
	case "password":
		acc := a.accounts[strings.ToLower(str(body, "email"))]
		if acc == nil || acc.password != str(body, "password") {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error_code": "invalid_credentials",
				"msg":        "Invalid login credentials",
			})
			return
		}
		writeJSON(w, http.StatusOK, a.sessionFor(acc))
	case "refresh_token":
		email, ok := a.refresh[str(body, "refresh_token")]
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":             "invalid_grant",
				"error_description": "Invalid Refresh Token: Refresh Token Not Found",
			})
			return
		}
		delete(a.refresh, str(body, "refresh_token"))
		writeJSON(w, http.StatusOK, a.sessionFor(a.accounts[email]))
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"msg": "unsupported grant type"})
	}
}

func (a *Auth) signup(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	email := str(body, "email")
	data, _ := body["data"].(map[string]any)

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.accounts[strings.ToLower(email)]; exists {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error_code": "user_already_exists",
			"msg":        "User already registered",
		})
		return
	}
	acc := &account{id: uuid.NewString(), email: email, password: str(body, "password"), fullName: str(data, "full_name")}
	a.accounts[strings.ToLower(email)] = acc
	if !a.AutoConfirm {
		writeJSON(w, http.StatusOK, map[string]any{"id": acc.id, "email": acc.email})
		return
	}
	writeJSON(w, http.StatusOK, a.sessionFor(acc))
}

func (a *Auth) logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (a *Auth) recover(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	a.mu.Lock()
	a.recovery[strings.ToLower(str(body, "email"))] = true
	a.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (a *Auth) verify(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	email := strings.ToLower(str(body, "email"))

	a.mu.Lock()
	defer a.mu.Unlock()
	acc := a.accounts[email]
	if str(body, "type") != "recovery" || !a.recovery[email] || str(body, "token") != RecoveryCode || acc == nil {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error_code": "otp_expired",
			"msg":        "Token has expired or is invalid",
		})
		return
	}
	delete(a.recovery, email)
	writeJSON(w, http.StatusOK, a.sessionFor(acc))
}

func (a *Auth) updateUser(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(raw, claims)
	email, _ := claims["email"].(string)

	a.mu.Lock()
	defer a.mu.Unlock()
	acc := a.accounts[strings.ToLower(email)]
	if err != nil || acc == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"msg": "invalid JWT"})
		return
	}
	if p := str(body, "password"); p != "" {
		if p == acc.password {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error_code": "same_password",
				"msg":        "New password should be different from the old password.",
			})
			return
		}
		acc.password = p
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": acc.id, "email": acc.email})
}

// String describes the fake for test failure messages.
func (a *Auth) String() string {
	return fmt.Sprintf("fake auth gateway at %s", a.URL())
}
