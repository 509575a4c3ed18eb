package provision

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"donorsetup/internal/domain"
)

func TestRoleTitle(t *testing.T) {
	require.Equal(t, "Resource Mobilization", RoleTitle(domain.UserRoleResourceMobilization))
	require.Equal(t, "Admin", RoleTitle(domain.UserRoleAdmin))
}

func TestWriteReportListsOutcomeAndCredentials(t *testing.T) {
	specs := DefaultAccounts()[:2]
	report := domain.NewReport([]domain.ProvisionResult{
		{Email: specs[0].Email, Role: specs[0].Role, Succeeded: true, Created: true, AccountID: "acc-1", Notes: "account created"},
		{Email: specs[1].Email, Role: specs[1].Role, Notes: "create account: supabase: status 500: boom"},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, report, specs))
	out := buf.String()

	require.Contains(t, out, "Setup complete: 1/2 accounts ready")
	require.Contains(t, out, "FAILED")
	require.Contains(t, out, "acc-1")
	require.Contains(t, out, "Finance Officer")
	require.Contains(t, out, "Finance@123")
	require.Contains(t, out, "/auth/login")
}

func TestWriteJSON(t *testing.T) {
	report := domain.NewReport([]domain.ProvisionResult{{Email: "a@x.test", Role: domain.UserRoleAdmin, Succeeded: true, AccountID: "acc-1"}})

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, report))

	var decoded domain.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, 1, decoded.Succeeded)
	require.Equal(t, "acc-1", decoded.Results[0].AccountID)
}

func TestFilterByEmail(t *testing.T) {
	all := DefaultAccounts()
	require.Len(t, FilterByEmail(all, ""), len(all))
	only := FilterByEmail(all, " ADMIN@starehe.ac.ke ")
	require.Len(t, only, 1)
	require.Equal(t, domain.UserRoleAdmin, only[0].Role)
	require.Empty(t, FilterByEmail(all, "nobody@starehe.ac.ke"))
}
