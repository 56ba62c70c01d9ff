package postgres

import (
	"context"
	"fmt"

	"github.com/dtroode/groupfeed/internal/model"
)

var _ model.ArchiveStore = (*ArchiveRepository)(nil)

type ArchiveRepository struct {
	db DBTX
}

func NewArchiveRepository(db DBTX) *ArchiveRepository {
	return &ArchiveRepository{
		db: db,
	}
}

// ListArchive returns the session user's archive rows joined with their post and group.
func (r *ArchiveRepository) ListArchive(ctx context.Context, session *model.Session) ([]model.ArchiveEntry, error) {
	if session == nil {
		return nil, model.ErrUnauthorized
	}

	query := `
		SELECT a.id, a.post_id, p.id, p.text, p.created_at, g.id, g.name
		FROM archive a
		JOIN posts p ON p.id = a.post_id
		JOIN groups g ON g.id = p.group_id
		WHERE a.user_id = $1
		ORDER BY a.id`

	rows, err := r.db.QueryContext(ctx, query, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer rows.Close()

	entries := []model.ArchiveEntry{}
	for rows.Next() {
		var e model.ArchiveEntry
		err := rows.Scan(
			&e.ID, &e.PostID,
			&e.Post.ID, &e.Post.Text, &e.Post.CreatedAt,
			&e.Post.Group.ID, &e.Post.Group.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan archive row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate archive rows: %w", err)
	}

	return entries, nil
}

// DeleteArchiveEntry deletes an archive row owned by the session user.
func (r *ArchiveRepository) DeleteArchiveEntry(ctx context.Context, session *model.Session, id int64) error {
	if session == nil {
		return model.ErrUnauthorized
	}

	const query = `DELETE FROM archive WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, session.UserID)
	if err != nil {
		return fmt.Errorf("failed to delete archive entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}

	return nil
}
