package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/groupfeed/internal/logger"
	"github.com/dtroode/groupfeed/internal/model"
)

// Session resolves request credentials into a session and proxies sign-in and
// sign-out to the auth provider.
type Session struct {
	provider model.AuthProvider
	tokens   model.TokenManager
	logger   *logger.Logger
}

func NewSession(provider model.AuthProvider, tokens model.TokenManager, logger *logger.Logger) *Session {
	return &Session{provider: provider, tokens: tokens, logger: logger}
}

// Resolve turns the access and refresh tokens carried by a request into a
// session state. The boolean reports whether the provider issued new tokens
// that the caller must hand back to the client.
//
// A state stays Loading when resolution could not finish: the request was
// cancelled, or the provider could not be reached to refresh an expired token.
func (s *Session) Resolve(ctx context.Context, accessToken, refreshToken string) (model.SessionState, bool) {
	if ctx.Err() != nil {
		return model.SessionState{Loading: true}, false
	}

	if accessToken == "" && refreshToken == "" {
		return model.SessionState{}, false
	}

	if accessToken != "" {
		userID, err := s.tokens.ParseAccessToken(accessToken)
		if err == nil {
			return model.SessionState{Session: &model.Session{
				AccessToken:  accessToken,
				RefreshToken: refreshToken,
				UserID:       userID,
			}}, false
		}
		s.logger.Debug("Session service: access token rejected", "error", err.Error())
	}

	if refreshToken == "" {
		return model.SessionState{}, false
	}

	session, err := s.provider.Refresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, model.ErrUnauthorized) {
			s.logger.Debug("Session service: refresh token rejected")
			return model.SessionState{}, false
		}
		s.logger.Warn("Session service: provider refresh failed", "error", err.Error())
		return model.SessionState{Loading: true}, false
	}

	return model.SessionState{Session: &session}, true
}

func (s *Session) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	session, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to sign in: %w", err)
	}

	s.logger.Info("Session service: signed in", "user_id", session.UserID)

	return session, nil
}

// SignOut revokes the session at the provider. A nil session is a no-op.
func (s *Session) SignOut(ctx context.Context, session *model.Session) error {
	if session == nil {
		return nil
	}

	err := s.provider.SignOut(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}

	return nil
}
