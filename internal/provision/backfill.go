package provision

import (
	"context"
	"fmt"
	"strings"

	"donorsetup/internal/domain"
)

// Backfill writes profile rows for specs whose auth account already exists.
// Listing the accounts is the only fatal step; missing accounts are reported
// per spec.
func (p *Provisioner) Backfill(ctx context.Context, specs []domain.AccountSpec) ([]domain.ProvisionResult, error) {
	accounts, err := p.identity.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	p.logger.Info().Int("accounts", len(accounts)).Msg("fetched auth users")

	byEmail := make(map[string]string, len(accounts))
	for _, a := range accounts {
		byEmail[strings.ToLower(a.Email)] = a.ID
	}

	results := make([]domain.ProvisionResult, 0, len(specs))
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			results = append(results, failed(spec, fmt.Sprintf("skipped: %v", err)))
			continue
		}
		id, ok := byEmail[strings.ToLower(spec.Email)]
		if !ok {
			p.logger.Warn().Str("email", spec.Email).Msg("user not found in auth")
			results = append(results, failed(spec, "not found in auth"))
			continue
		}
		res := domain.ProvisionResult{Email: spec.Email, Role: spec.Role, AccountID: id}
		err := p.profiles.InsertProfile(ctx, domain.Profile{
			ID:       id,
			Email:    spec.Email,
			FullName: spec.FullName,
			Role:     spec.Role,
			Phone:    spec.Phone,
		})
		if err != nil {
			res.Notes = fmt.Sprintf("insert profile: %v", err)
		} else {
			res.Succeeded = true
			res.Notes = "profile written (" + string(spec.Role) + ")"
		}
		results = append(results, res)
	}
	return results, nil
}
