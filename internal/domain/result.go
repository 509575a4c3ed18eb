package domain

// ProvisionResult is the outcome of provisioning a single AccountSpec.
type ProvisionResult struct {
	Email     string   `json:"email"`
	Role      UserRole `json:"role"`
	Succeeded bool     `json:"succeeded"`
	AccountID string   `json:"account_id,omitempty"`
	Created   bool     `json:"created"`
	Notes     string   `json:"notes"`
}

// Report aggregates the results of a run.
type Report struct {
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Created   int               `json:"created"`
	Recovered int               `json:"recovered"`
	Results   []ProvisionResult `json:"results"`
}

// NewReport summarizes results in order.
func NewReport(results []ProvisionResult) Report {
	r := Report{Total: len(results), Results: results}
	for _, res := range results {
		if !res.Succeeded {
			r.Failed++
			continue
		}
		r.Succeeded++
		if res.Created {
			r.Created++
		} else {
			r.Recovered++
		}
	}
	return r
}
