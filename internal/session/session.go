// Package session holds the current authenticated session. It is the one
// piece of client state that survives a restart, persisted as a single JSON
// blob the way the web client keeps its userInfo in local storage. Every
// module that needs authorization reads the token through the Manager instead
// of reaching into shared state.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the persisted user info blob.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
}

// Valid reports whether the session carries a token.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.Token) != ""
}

// IsAdmin reports whether the session belongs to a back-office user.
func (s Session) IsAdmin() bool {
	return strings.EqualFold(s.Role, "admin")
}

// Claims are the token claims the client cares about. The client never
// verifies the signature, the backend is authoritative; claims are inspected
// only for UX decisions like prompting a re-login near expiry.
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// InspectToken parses the bearer token without verification and returns its
// claims.
func InspectToken(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("session: token is empty")
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("session: parse token: %w", err)
	}
	return claims, nil
}

// ExpiresWithin reports whether the token expires within d. Tokens without an
// exp claim, or that cannot be parsed, are treated as not expiring so the
// backend stays the authority on rejection.
func ExpiresWithin(token string, d time.Duration) bool {
	claims, err := InspectToken(token)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) < d
}
