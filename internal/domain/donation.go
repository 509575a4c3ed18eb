package domain

// DonorType enumerates donor classifications.
type DonorType string

const (
	DonorTypeIndividual DonorType = "individual"
)

// Donor is the statistics row linked to a donor account.
type Donor struct {
	ID            string
	UserID        string
	DonorType     DonorType
	TotalDonated  int64
	DonationCount int
}

// NewDonor returns the default statistics row for a freshly provisioned donor.
func NewDonor(userID string) Donor {
	return Donor{
		UserID:    userID,
		DonorType: DonorTypeIndividual,
	}
}
