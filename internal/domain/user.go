package domain

import (
	"fmt"
	"strings"
)

// UserRole enumerates the portal roles a profile can hold.
type UserRole string

const (
	UserRoleDonor                UserRole = "donor"
	UserRoleFinanceOfficer       UserRole = "finance_officer"
	UserRoleSponsorshipOfficer   UserRole = "sponsorship_officer"
	UserRoleResourceMobilization UserRole = "resource_mobilization"
	UserRoleAdmin                UserRole = "admin"
)

// Valid reports whether the role is one the application understands.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleDonor, UserRoleFinanceOfficer, UserRoleSponsorshipOfficer, UserRoleResourceMobilization, UserRoleAdmin:
		return true
	}
	return false
}

// AccountSpec describes a test account that must exist after provisioning.
type AccountSpec struct {
	Email               string
	Password            string
	Role                UserRole
	FullName            string
	Phone               string
	CreateRelatedRecord bool
}

// Validate checks the spec before any remote call is attempted.
func (s AccountSpec) Validate() error {
	email := strings.TrimSpace(s.Email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidSpec)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: email %q is malformed", ErrInvalidSpec, email)
	}
	if s.Password == "" {
		return fmt.Errorf("%w: password is required for %s", ErrInvalidSpec, email)
	}
	if !s.Role.Valid() {
		return fmt.Errorf("%w: unsupported role %q", ErrInvalidSpec, s.Role)
	}
	return nil
}

// NormalizeEmail trims and lowercases an address. Profile rows store the
// lowercased form the auth service assigns, so every store matches on it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RemoteAccount is an identity owned by the hosted auth service.
type RemoteAccount struct {
	ID       string
	Email    string
	Metadata map[string]any
}

// CreateAccountRequest carries the inputs for the auth admin create call.
type CreateAccountRequest struct {
	Email        string
	Password     string
	EmailConfirm bool
	Metadata     map[string]any
}

// Profile mirrors a row of the profiles table.
type Profile struct {
	ID       string
	Email    string
	FullName string
	Role     UserRole
	Phone    string
}

// ProfileFields holds the columns patched on an existing profile.
type ProfileFields struct {
	Role     UserRole
	FullName string
	Phone    string
}
