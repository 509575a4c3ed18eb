package provision

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"donorsetup/internal/domain"
)

// RoleTitle renders a role for humans, e.g. "Resource Mobilization".
func RoleTitle(role domain.UserRole) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(role), "_", " "))
}

// WriteReport prints the per-account outcome, the success count and the
// credentials of the fixtures so testers can log in.
func WriteReport(w io.Writer, report domain.Report, specs []domain.AccountSpec) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tEMAIL\tROLE\tACCOUNT\tNOTES")
	for _, r := range report.Results {
		status := "ok"
		if !r.Succeeded {
			status = "FAILED"
		}
		account := r.AccountID
		if account == "" {
			account = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", status, r.Email, r.Role, account, r.Notes)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nSetup complete: %d/%d accounts ready (%d created, %d already existed, %d failed)\n",
		report.Succeeded, report.Total, report.Created, report.Recovered, report.Failed)

	if len(specs) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\nTest account credentials:")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range specs {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", RoleTitle(s.Role), s.Email, s.Password)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w, "\nLogin at /auth/login")
	return nil
}

// WriteJSON prints the report as indented JSON.
func WriteJSON(w io.Writer, report domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
