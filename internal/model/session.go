package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is an authenticated identity handle issued by the auth provider.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       uuid.UUID
	ExpiresAt    time.Time
}

// SessionState is what the session gate observes: whether resolution is still
// pending and, once it is not, the session if one exists.
type SessionState struct {
	Loading bool
	Session *Session
}

// AuthProvider is the external identity provider.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
	SignOut(ctx context.Context, session *Session) error
}
