package domain

// Raiser is the party organising a campaign.
type Raiser struct {
	ID         string
	Name       string
	ProfileImg string
	IsVerified bool
}

// FundUsage is a single disbursement entry reported for a campaign.
// Entries keep the order the platform returns them in.
type FundUsage struct {
	ID     string
	Title  string
	Amount int64
}

// Campaign represents a fundraising cause as served by the platform API.
// Optional remote fields are normalized to zero values by the gateway.
type Campaign struct {
	ID          string
	Name        string
	TargetFund  int64
	CurrentFund int64
	HeroImg     string
	Description string
	DaysLeft    int
	FunderCount int
	Raiser      *Raiser
	Bank        *BankAccount
	FundUsages  []FundUsage
}

// Progress returns the funding percentage. A campaign without a target
// reports zero rather than dividing by it.
func (c Campaign) Progress() float64 {
	if c.TargetFund == 0 {
		return 0
	}
	return float64(c.CurrentFund) / float64(c.TargetFund) * 100
}
