package context

import (
	"context"

	"github.com/dtroode/groupfeed/internal/model"
)

type sessionKey struct{}

// Manager stores the resolved session in a request context.
type Manager struct{}

// NewManager creates a new HTTP context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetSessionToContext returns a copy of ctx carrying session.
func (m *Manager) SetSessionToContext(ctx context.Context, session *model.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session stored by SetSessionToContext.
// A nil session counts as missing.
func (m *Manager) GetSessionFromContext(ctx context.Context) (*model.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*model.Session)
	if !ok || session == nil {
		return nil, false
	}
	return session, true
}
