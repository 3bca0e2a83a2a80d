package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access-token claims the client relies on. The token is
// decoded without verifying its signature; the API verifies it.
type Claims struct {
	Subject   string
	Email     string
	SessionID string
	ExpiresAt time.Time
}

// ParseClaims decodes the claims of an access token.
func ParseClaims(token string) (Claims, error) {
	tok, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("decode access token: %w", err)
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("decode access token: unexpected claims type %T", tok.Claims)
	}

	var c Claims
	c.Subject, _ = mc.GetSubject()
	c.Email, _ = mc["email"].(string)
	c.SessionID, _ = mc["session_id"].(string)
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
