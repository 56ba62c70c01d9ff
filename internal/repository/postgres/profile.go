package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtroode/groupfeed/internal/model"
)

var _ model.ProfileStore = (*ProfileRepository)(nil)

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{
		db: db,
	}
}

// GetProfile returns the session user's profile. A user without a profile row
// gets an empty profile.
func (r *ProfileRepository) GetProfile(ctx context.Context, session *model.Session) (model.Profile, error) {
	if session == nil {
		return model.Profile{}, model.ErrUnauthorized
	}

	query := `SELECT COALESCE(name, ''), COALESCE(picture, '') FROM profiles WHERE user_id = $1`

	var p model.Profile
	err := r.db.QueryRowContext(ctx, query, session.UserID).Scan(&p.Name, &p.Picture)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, nil
		}
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	return p, nil
}
