package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/scholarai/scholar/internal/model"
)

// expirySkew refreshes tokens slightly before they actually expire.
const expirySkew = 30 * time.Second

// Identity is the account attached to a session.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Session is an authenticated gateway session.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         Identity  `json:"user"`
}

// Expired reports whether the access token needs refreshing at now.
func (s *Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(expirySkew).Before(s.ExpiresAt)
}

// Hash identifies the session without exposing the token: the session_id
// claim when present, otherwise a SHA-256 prefix of the access token.
func (s *Session) Hash() string {
	if c, err := ParseClaims(s.AccessToken); err == nil && c.SessionID != "" {
		return c.SessionID
	}
	sum := sha256.Sum256([]byte(s.AccessToken))
	return hex.EncodeToString(sum[:])[:16]
}

// ToUser reconstructs the client-side user from the session payload.
func (s *Session) ToUser() (model.User, error) {
	name := strings.TrimSpace(s.User.FullName)
	return model.NewUser(s.User.ID, name, s.User.Email, s.Hash())
}
