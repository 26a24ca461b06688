package client

import (
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Asim1O1/Shelf-Society-sub000/models"
)

// Session is the identity context shared by all stores. It holds the bearer
// token and a snapshot of the signed-in user; it does not refresh or verify
// credentials — the gateway is the verifier.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *models.User
}

// SetCredentials installs the token and user returned by login/register.
func (s *Session) SetCredentials(token string, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
}

// Clear drops the credentials. Invoked on logout.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsStaff reports whether the session belongs to a staff account.
func (s *Session) IsStaff() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == models.RoleStaff
}

// IsAuthenticated reports whether a usable token is present. The exp claim is
// checked without verifying the signature; a malformed token counts as
// signed out.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return false
	}
	if exp == nil {
		return true
	}
	return exp.Time.After(nowFunc())
}
