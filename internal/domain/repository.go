package domain

import "context"

// IdentityStore manages accounts in the hosted auth service.
type IdentityStore interface {
	// CreateAccount returns ErrConflict when the email is already registered.
	CreateAccount(ctx context.Context, req CreateAccountRequest) (*RemoteAccount, error)
	// FindAccountByEmail returns ErrNotFound when no account matches.
	FindAccountByEmail(ctx context.Context, email string) (*RemoteAccount, error)
	ListAccounts(ctx context.Context) ([]RemoteAccount, error)
}

// ProfileStore patches and inserts rows of the profiles table.
type ProfileStore interface {
	UpdateProfile(ctx context.Context, email string, fields ProfileFields) (int, error)
	InsertProfile(ctx context.Context, profile Profile) error
	ProfileIDByEmail(ctx context.Context, email string) (string, error)
}

// DonorStore handles donor statistics rows.
type DonorStore interface {
	DonorExists(ctx context.Context, userID string) (bool, error)
	CreateDonor(ctx context.Context, donor Donor) error
}
