package provision

import (
	"strings"

	"donorsetup/internal/domain"
)

var defaultAccounts = []domain.AccountSpec{
	{
		Email:               "donor@starehe.ac.ke",
		Password:            "Donor@123",
		Role:                domain.UserRoleDonor,
		FullName:            "Test Donor",
		Phone:               "+254700000001",
		CreateRelatedRecord: true,
	},
	{
		Email:    "finance@starehe.ac.ke",
		Password: "Finance@123",
		Role:     domain.UserRoleFinanceOfficer,
		FullName: "Test Finance Officer",
		Phone:    "+254700000002",
	},
	{
		Email:    "sponsorship@starehe.ac.ke",
		Password: "Sponsor@123",
		Role:     domain.UserRoleSponsorshipOfficer,
		FullName: "Test Sponsorship Officer",
		Phone:    "+254700000003",
	},
	{
		Email:    "resource@starehe.ac.ke",
		Password: "Resource@123",
		Role:     domain.UserRoleResourceMobilization,
		FullName: "Test Resource Officer",
		Phone:    "+254700000004",
	},
	{
		Email:    "admin@starehe.ac.ke",
		Password: "Admin@123",
		Role:     domain.UserRoleAdmin,
		FullName: "Test Admin",
		Phone:    "+254700000005",
	},
}

// DefaultAccounts returns a copy of the portal test accounts, one per role.
func DefaultAccounts() []domain.AccountSpec {
	out := make([]domain.AccountSpec, len(defaultAccounts))
	copy(out, defaultAccounts)
	return out
}

// FilterByEmail keeps the specs whose email matches, ignoring case. An empty
// email returns specs unchanged.
func FilterByEmail(specs []domain.AccountSpec, email string) []domain.AccountSpec {
	email = strings.TrimSpace(email)
	if email == "" {
		return specs
	}
	var out []domain.AccountSpec
	for _, s := range specs {
		if strings.EqualFold(s.Email, email) {
			out = append(out, s)
		}
	}
	return out
}
