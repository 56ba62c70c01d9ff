package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/groupfeed/internal/model"
)

var _ model.ProfileStore = (*Client)(nil)

type userResponse struct {
	ID           uuid.UUID     `json:"id"`
	Email        string        `json:"email"`
	UserMetadata model.Profile `json:"user_metadata"`
}

// GetProfile reads the session user's metadata from the auth API.
func (c *Client) GetProfile(ctx context.Context, session *model.Session) (model.Profile, error) {
	if session == nil {
		return model.Profile{}, model.ErrUnauthorized
	}

	req, err := c.newRequest(ctx, http.MethodGet, "user", session, RequestOptions{User: true})
	if err != nil {
		return model.Profile{}, err
	}

	var user userResponse
	if err := c.do(req, &user); err != nil {
		return model.Profile{}, fmt.Errorf("failed to get user: %w", mapStatus(err))
	}

	return user.UserMetadata, nil
}
