// Package provision ensures a fixed set of test accounts exists in the hosted
// backend with the right profile role and, for donors, a statistics row.
package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"donorsetup/internal/domain"
	"donorsetup/internal/infra"
)

// Options wires the remote stores into a Provisioner.
type Options struct {
	Identity domain.IdentityStore
	Profiles domain.ProfileStore
	Donors   domain.DonorStore
	Logger   *infra.Logger
}

// Provisioner runs the per-account sequence: ensure account, ensure profile,
// ensure related record. Specs are processed one at a time, in order.
type Provisioner struct {
	identity domain.IdentityStore
	profiles domain.ProfileStore
	donors   domain.DonorStore
	logger   *infra.Logger
}

// New validates the wiring.
func New(opts Options) (*Provisioner, error) {
	if opts.Identity == nil {
		return nil, errors.New("provision: identity store is required")
	}
	if opts.Profiles == nil {
		return nil, errors.New("provision: profile store is required")
	}
	if opts.Donors == nil {
		return nil, errors.New("provision: donor store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Provisioner{
		identity: opts.Identity,
		profiles: opts.Profiles,
		donors:   opts.Donors,
		logger:   logger,
	}, nil
}

// Run provisions every spec and returns one result per spec in input order.
// A failing spec never stops the run.
func (p *Provisioner) Run(ctx context.Context, specs []domain.AccountSpec) []domain.ProvisionResult {
	results := make([]domain.ProvisionResult, 0, len(specs))
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			results = append(results, failed(spec, fmt.Sprintf("skipped: %v", err)))
			continue
		}
		res := p.provision(ctx, spec)
		ev := p.logger.Info()
		if !res.Succeeded {
			ev = p.logger.Warn()
		}
		ev.Str("email", res.Email).
			Bool("succeeded", res.Succeeded).
			Str("account_id", res.AccountID).
			Str("notes", res.Notes).
			Msg("account processed")
		results = append(results, res)
	}
	return results
}

func (p *Provisioner) provision(ctx context.Context, spec domain.AccountSpec) domain.ProvisionResult {
	if err := spec.Validate(); err != nil {
		return failed(spec, err.Error())
	}
	log := p.logger.With().Str("email", spec.Email).Logger()

	var notes []string
	log.Debug().Str("step", "account").Msg("ensuring account")
	accountID, created, err := p.ensureAccount(ctx, spec)
	if err != nil {
		return failed(spec, err.Error())
	}
	if created {
		notes = append(notes, "account created")
	} else {
		notes = append(notes, "account already existed")
	}

	res := domain.ProvisionResult{
		Email:     spec.Email,
		Role:      spec.Role,
		AccountID: accountID,
		Created:   created,
	}

	log.Debug().Str("step", "profile").Str("account_id", accountID).Msg("ensuring profile")
	note, err := p.ensureProfile(ctx, spec, accountID)
	if err != nil {
		res.Notes = strings.Join(append(notes, err.Error()), "; ")
		return res
	}
	notes = append(notes, note)

	if spec.CreateRelatedRecord {
		log.Debug().Str("step", "donor").Str("account_id", accountID).Msg("ensuring donor record")
		note, err := p.ensureDonor(ctx, spec)
		if err != nil {
			res.Notes = strings.Join(append(notes, err.Error()), "; ")
			return res
		}
		notes = append(notes, note)
	}

	res.Succeeded = true
	res.Notes = strings.Join(notes, "; ")
	return res
}

// ensureAccount creates the account, falling back to a lookup when the email
// is already registered.
func (p *Provisioner) ensureAccount(ctx context.Context, spec domain.AccountSpec) (string, bool, error) {
	metadata := map[string]any{"role": string(spec.Role)}
	if spec.FullName != "" {
		metadata["full_name"] = spec.FullName
	}
	account, err := p.identity.CreateAccount(ctx, domain.CreateAccountRequest{
		Email:        spec.Email,
		Password:     spec.Password,
		EmailConfirm: true,
		Metadata:     metadata,
	})
	if err == nil {
		return account.ID, true, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return "", false, fmt.Errorf("create account: %w", err)
	}

	existing, err := p.identity.FindAccountByEmail(ctx, spec.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", false, errors.New("email reported as registered but lookup found no account")
		}
		return "", false, fmt.Errorf("lookup account: %w", err)
	}
	return existing.ID, false, nil
}

// ensureProfile patches the profile by email. A patch touching no rows is
// followed by an insert keyed on the account id.
func (p *Provisioner) ensureProfile(ctx context.Context, spec domain.AccountSpec, accountID string) (string, error) {
	n, err := p.profiles.UpdateProfile(ctx, spec.Email, domain.ProfileFields{
		Role:     spec.Role,
		FullName: spec.FullName,
		Phone:    spec.Phone,
	})
	if err != nil {
		return "", fmt.Errorf("update profile: %w", err)
	}
	if n > 0 {
		return "profile updated (" + string(spec.Role) + ")", nil
	}

	err = p.profiles.InsertProfile(ctx, domain.Profile{
		ID:       accountID,
		Email:    spec.Email,
		FullName: spec.FullName,
		Role:     spec.Role,
		Phone:    spec.Phone,
	})
	switch {
	case err == nil:
		return "profile inserted (" + string(spec.Role) + ")", nil
	case errors.Is(err, domain.ErrConflict):
		return "profile already present", nil
	default:
		return "", fmt.Errorf("insert profile: %w", err)
	}
}

// ensureDonor resolves the account id through the profile and creates the
// donor row unless one is already linked.
func (p *Provisioner) ensureDonor(ctx context.Context, spec domain.AccountSpec) (string, error) {
	userID, err := p.profiles.ProfileIDByEmail(ctx, spec.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", errors.New("donor record: profile not found")
		}
		return "", fmt.Errorf("donor record: lookup profile: %w", err)
	}

	exists, err := p.donors.DonorExists(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("donor record: %w", err)
	}
	if exists {
		return "donor record already present", nil
	}

	switch err := p.donors.CreateDonor(ctx, domain.NewDonor(userID)); {
	case err == nil:
		return "donor record created", nil
	case errors.Is(err, domain.ErrConflict):
		return "donor record already present", nil
	default:
		return "", fmt.Errorf("donor record: %w", err)
	}
}

func failed(spec domain.AccountSpec, note string) domain.ProvisionResult {
	return domain.ProvisionResult{
		Email: spec.Email,
		Role:  spec.Role,
		Notes: note,
	}
}
