package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/groupfeed/internal/model"
)

var _ model.AuthProvider = (*Client)(nil)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         struct {
		ID uuid.UUID `json:"id"`
	} `json:"user"`
}

func (t tokenResponse) session() model.Session {
	expiresAt := time.Unix(t.ExpiresAt, 0)
	if t.ExpiresAt == 0 {
		expiresAt = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	}

	return model.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		UserID:       t.User.ID,
		ExpiresAt:    expiresAt,
	}
}

// SignIn exchanges email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	body := map[string]string{"email": email, "password": password}
	s, err := c.grant(ctx, "password", body)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to sign in: %w", err)
	}
	return s, nil
}

// Refresh exchanges a refresh token for a new session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (model.Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	s, err := c.grant(ctx, "refresh_token", body)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to refresh session: %w", err)
	}
	return s, nil
}

// SignOut revokes the session's refresh tokens.
func (c *Client) SignOut(ctx context.Context, session *model.Session) error {
	if session == nil {
		return nil
	}

	req, err := c.newRequest(ctx, http.MethodPost, "logout", session, RequestOptions{User: true})
	if err != nil {
		return err
	}

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("failed to sign out: %w", mapStatus(err))
	}

	return nil
}

func (c *Client) grant(ctx context.Context, grantType string, body any) (model.Session, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "token", nil, RequestOptions{
		User:  true,
		Query: url.Values{"grant_type": {grantType}},
		Body:  body,
	})
	if err != nil {
		return model.Session{}, err
	}

	var resp tokenResponse
	if err := c.do(req, &resp); err != nil {
		// The token endpoint answers bad credentials and spent refresh
		// tokens with 400 invalid_grant.
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusBadRequest {
			return model.Session{}, fmt.Errorf("%w: %w", model.ErrUnauthorized, err)
		}
		return model.Session{}, mapStatus(err)
	}

	if resp.AccessToken == "" {
		return model.Session{}, fmt.Errorf("%w: empty access token", model.ErrUnauthorized)
	}

	return resp.session(), nil
}
