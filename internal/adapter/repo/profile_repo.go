package repo

import (
	"context"
	"fmt"

	"donorsetup/internal/domain"
	"donorsetup/internal/infra"
	"donorsetup/internal/sqlinline"
)

// ProfileRepositoryPG implements domain.ProfileStore directly against the
// profiles table.
type ProfileRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewProfileRepository creates a new ProfileRepositoryPG.
func NewProfileRepository(sql infra.SQLExecutor) *ProfileRepositoryPG {
	return &ProfileRepositoryPG{sql: sql}
}

// UpdateProfile patches role, name and phone for the row matching the
// normalized email and returns the number of rows touched. An empty phone
// keeps the stored one.
func (r *ProfileRepositoryPG) UpdateProfile(ctx context.Context, email string, fields domain.ProfileFields) (int, error) {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateProfileByEmail,
		domain.NormalizeEmail(email),
		string(fields.Role),
		fields.FullName,
		fields.Phone,
	)
	if err != nil {
		return 0, fmt.Errorf("update profile: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// InsertProfile upserts the profile row keyed by account id.
func (r *ProfileRepositoryPG) InsertProfile(ctx context.Context, profile domain.Profile) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpsertProfile,
		profile.ID,
		domain.NormalizeEmail(profile.Email),
		profile.FullName,
		string(profile.Role),
		profile.Phone,
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return fmt.Errorf("insert profile: %w", domain.ErrConflict)
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// ProfileIDByEmail resolves the account id through the profiles table.
func (r *ProfileRepositoryPG) ProfileIDByEmail(ctx context.Context, email string) (string, error) {
	var id string
	if err := r.sql.QueryRow(ctx, sqlinline.QSelectProfileIDByEmail, domain.NormalizeEmail(email)).Scan(&id); err != nil {
		if infra.IsNoRows(err) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("select profile: %w", err)
	}
	return id, nil
}

var _ domain.ProfileStore = (*ProfileRepositoryPG)(nil)
