package domain

import (
	"errors"
	"testing"
)

func TestAccountSpecValidate(t *testing.T) {
	valid := AccountSpec{Email: "donor@example.test", Password: "Donor@123", Role: UserRoleDonor}

	cases := []struct {
		name    string
		mutate  func(*AccountSpec)
		wantErr bool
	}{
		{name: "valid", mutate: func(*AccountSpec) {}},
		{name: "blank email", mutate: func(s *AccountSpec) { s.Email = "  " }, wantErr: true},
		{name: "no at sign", mutate: func(s *AccountSpec) { s.Email = "donor.example.test" }, wantErr: true},
		{name: "missing password", mutate: func(s *AccountSpec) { s.Password = "" }, wantErr: true},
		{name: "unknown role", mutate: func(s *AccountSpec) { s.Role = "owner" }, wantErr: true},
		{name: "empty role", mutate: func(s *AccountSpec) { s.Role = "" }, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := valid
			tc.mutate(&spec)
			err := spec.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidSpec) {
					t.Fatalf("expected ErrInvalidSpec, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestUserRoleValid(t *testing.T) {
	for _, r := range []UserRole{UserRoleDonor, UserRoleFinanceOfficer, UserRoleSponsorshipOfficer, UserRoleResourceMobilization, UserRoleAdmin} {
		if !r.Valid() {
			t.Fatalf("%q should be valid", r)
		}
	}
	if UserRole("Admin").Valid() {
		t.Fatal("roles are case sensitive")
	}
}

func TestNewReport(t *testing.T) {
	report := NewReport([]ProvisionResult{
		{Email: "a@x.test", Succeeded: true, Created: true},
		{Email: "b@x.test", Succeeded: true},
		{Email: "c@x.test", Notes: "create account: boom"},
	})
	if report.Total != 3 || report.Succeeded != 2 || report.Failed != 1 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	if report.Created != 1 || report.Recovered != 1 {
		t.Fatalf("unexpected created/recovered: %+v", report)
	}
	if report.Results[2].Email != "c@x.test" {
		t.Fatalf("results reordered: %+v", report.Results)
	}
}

func TestNewDonorDefaults(t *testing.T) {
	d := NewDonor("user-1")
	if d.UserID != "user-1" || d.DonorType != DonorTypeIndividual {
		t.Fatalf("unexpected donor: %+v", d)
	}
	if d.TotalDonated != 0 || d.DonationCount != 0 {
		t.Fatalf("new donor should start at zero: %+v", d)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Donor@Starehe.AC.ke "); got != "donor@starehe.ac.ke" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}
