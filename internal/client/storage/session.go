// Package storage defines the local persistence of the CLI client.
package storage

import (
	"context"
	"time"
)

// SessionStorage defines interface for storing the login session on client
type SessionStorage interface {
	// SaveSession stores the session, replacing any previous one
	SaveSession(ctx context.Context, session *SessionData) error

	// GetSession retrieves the stored session.
	// Returns ErrSessionNotFound if nobody is logged in
	GetSession(ctx context.Context) (*SessionData, error)

	// DeleteSession removes the stored session (logout).
	// Returns ErrSessionNotFound if there is nothing to delete
	DeleteSession(ctx context.Context) error

	// IsAuthenticated checks if a session exists and its token is not expired
	IsAuthenticated(ctx context.Context) (bool, error)
}

// SessionData is the token returned by the server on login together with
// the server it is valid for
type SessionData struct {
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	ServerURL string    `json:"server_url"`
	Token     string    `json:"token"`
}

// Expired reports whether the token is past its expiry at now.
// A zero ExpiresAt is treated as expired.
func (s *SessionData) Expired(now time.Time) bool {
	return s.ExpiresAt.IsZero() || !now.Before(s.ExpiresAt)
}
