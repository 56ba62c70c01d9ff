package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dtroode/groupfeed/internal/model"
)

// archiveSelect asks for archive rows with their post and the post's group.
const archiveSelect = "*,posts(text,created_at,id,groups(name,id))"

var _ model.ArchiveStore = (*Client)(nil)

// ListArchive returns the session user's archive rows. Row-level security on
// the backend limits the rows to the session's user.
func (c *Client) ListArchive(ctx context.Context, session *model.Session) ([]model.ArchiveEntry, error) {
	if session == nil {
		return nil, model.ErrUnauthorized
	}

	req, err := c.newRequest(ctx, http.MethodGet, "archive", session, RequestOptions{
		Query: url.Values{"select": {archiveSelect}},
	})
	if err != nil {
		return nil, err
	}

	var entries []model.ArchiveEntry
	if err := c.do(req, &entries); err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", mapStatus(err))
	}

	return entries, nil
}

// DeleteArchiveEntry deletes one archive row by its id.
func (c *Client) DeleteArchiveEntry(ctx context.Context, session *model.Session, id int64) error {
	if session == nil {
		return model.ErrUnauthorized
	}

	req, err := c.newRequest(ctx, http.MethodDelete, "archive", session, RequestOptions{
		Query: url.Values{"id": {"eq." + strconv.FormatInt(id, 10)}},
	})
	if err != nil {
		return err
	}

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("failed to delete archive entry %d: %w", id, mapStatus(err))
	}

	return nil
}
