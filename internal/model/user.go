package model

import (
	"errors"
	"strings"
	"unicode"
)

// ErrMissingName is returned when a user cannot be built without a display name.
var ErrMissingName = errors.New("user has no name")

// User is the signed-in account as seen by the client.
type User struct {
	ID          string
	Name        string
	Email       string
	Avatar      string
	SessionHash string
}

// NewUser builds a User and derives its avatar from name.
func NewUser(id, name, email, sessionHash string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, ErrMissingName
	}
	return User{
		ID:          id,
		Name:        name,
		Email:       email,
		Avatar:      AvatarInitials(name),
		SessionHash: sessionHash,
	}, nil
}

// FirstName returns the first word of the user's name.
func (u User) FirstName() string {
	if f := strings.Fields(u.Name); len(f) > 0 {
		return f[0]
	}
	return u.Name
}

// AvatarInitials returns the upper-cased first letter of every word in name.
// Words are split on anything that is not a letter or digit, so
// "Jean-Luc Picard" yields "JLP".
func AvatarInitials(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, w := range words {
		for _, r := range w {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
	}
	return b.String()
}
