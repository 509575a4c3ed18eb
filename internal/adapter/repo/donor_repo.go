package repo

import (
	"context"
	"fmt"

	"donorsetup/internal/domain"
	"donorsetup/internal/infra"
	"donorsetup/internal/sqlinline"
)

// DonorRepositoryPG implements domain.DonorStore using PostgreSQL.
type DonorRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewDonorRepository creates a new donor repo.
func NewDonorRepository(sql infra.SQLExecutor) *DonorRepositoryPG {
	return &DonorRepositoryPG{sql: sql}
}

// DonorExists reports whether a donor row references userID.
func (r *DonorRepositoryPG) DonorExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	if err := r.sql.QueryRow(ctx, sqlinline.QSelectDonorByUserID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("select donor: %w", err)
	}
	return exists, nil
}

// CreateDonor inserts the statistics row. A unique violation on user_id is
// reported as domain.ErrConflict.
func (r *DonorRepositoryPG) CreateDonor(ctx context.Context, donor domain.Donor) error {
	donorType := donor.DonorType
	if donorType == "" {
		donorType = domain.DonorTypeIndividual
	}
	_, err := r.sql.Exec(ctx, sqlinline.QInsertDonor, donor.UserID, string(donorType), donor.TotalDonated, donor.DonationCount)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return fmt.Errorf("insert donor: %w", domain.ErrConflict)
		}
		return fmt.Errorf("insert donor: %w", err)
	}
	return nil
}

var _ domain.DonorStore = (*DonorRepositoryPG)(nil)
