package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"donorsetup/internal/domain"
)

const (
	profilesPath = "/rest/v1/profiles"
	donorsPath   = "/rest/v1/donors"
)

type profilePatch struct {
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
}

type profileRow struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

type idRow struct {
	ID string `json:"id"`
}

type donorRow struct {
	UserID        string `json:"user_id"`
	DonorType     string `json:"donor_type"`
	TotalDonated  int64  `json:"total_donated"`
	DonationCount int    `json:"donation_count"`
}

func eq(v string) string {
	return "eq." + v
}

// UpdateProfile patches the profile row(s) matching the normalized email and
// returns how many rows PostgREST reported back. An empty phone keeps the
// stored one.
func (c *Client) UpdateProfile(ctx context.Context, email string, fields domain.ProfileFields) (int, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return 0, errors.New("supabase: email is required")
	}
	outcome := c.do(ctx, request{
		method: http.MethodPatch,
		path:   profilesPath,
		query:  url.Values{"email": {eq(email)}},
		body: profilePatch{
			Role:     string(fields.Role),
			FullName: fields.FullName,
			Phone:    fields.Phone,
		},
		prefer: "return=representation",
	})
	if err := outcome.Err(); err != nil {
		return 0, err
	}
	var rows []idRow
	if err := decodeBody(outcome, &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// InsertProfile upserts a profile row keyed by account id.
func (c *Client) InsertProfile(ctx context.Context, profile domain.Profile) error {
	if strings.TrimSpace(profile.ID) == "" {
		return errors.New("supabase: profile id is required")
	}
	outcome := c.do(ctx, request{
		method: http.MethodPost,
		path:   profilesPath,
		query:  url.Values{"on_conflict": {"id"}},
		body: profileRow{
			ID:       profile.ID,
			Email:    domain.NormalizeEmail(profile.Email),
			FullName: profile.FullName,
			Role:     string(profile.Role),
			Phone:    profile.Phone,
		},
		prefer: "resolution=merge-duplicates,return=minimal",
	})
	return outcome.Err()
}

// ProfileIDByEmail resolves the account id stored on the profile row.
func (c *Client) ProfileIDByEmail(ctx context.Context, email string) (string, error) {
	outcome := c.do(ctx, request{
		method: http.MethodGet,
		path:   profilesPath,
		query: url.Values{
			"email":  {eq(domain.NormalizeEmail(email))},
			"select": {"id"},
		},
	})
	if err := outcome.Err(); err != nil {
		return "", err
	}
	var rows []idRow
	if err := decodeBody(outcome, &rows); err != nil {
		return "", err
	}
	if len(rows) == 0 || rows[0].ID == "" {
		return "", domain.ErrNotFound
	}
	return rows[0].ID, nil
}

// DonorExists reports whether a donor row references userID.
func (c *Client) DonorExists(ctx context.Context, userID string) (bool, error) {
	outcome := c.do(ctx, request{
		method: http.MethodGet,
		path:   donorsPath,
		query: url.Values{
			"user_id": {eq(userID)},
			"select":  {"id"},
		},
	})
	if err := outcome.Err(); err != nil {
		return false, err
	}
	var rows []idRow
	if err := decodeBody(outcome, &rows); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// CreateDonor inserts a donor statistics row; duplicates surface as
// domain.ErrConflict.
func (c *Client) CreateDonor(ctx context.Context, donor domain.Donor) error {
	if strings.TrimSpace(donor.UserID) == "" {
		return errors.New("supabase: donor user id is required")
	}
	donorType := donor.DonorType
	if donorType == "" {
		donorType = domain.DonorTypeIndividual
	}
	outcome := c.do(ctx, request{
		method: http.MethodPost,
		path:   donorsPath,
		body: donorRow{
			UserID:        donor.UserID,
			DonorType:     string(donorType),
			TotalDonated:  donor.TotalDonated,
			DonationCount: donor.DonationCount,
		},
		prefer: "return=minimal",
	})
	return outcome.Err()
}

var (
	_ domain.IdentityStore = (*Client)(nil)
	_ domain.ProfileStore  = (*Client)(nil)
	_ domain.DonorStore    = (*Client)(nil)
)
