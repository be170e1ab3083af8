package domain

// BankAccount is one of the eligible receiving accounts donors may
// transfer to. Name holds the account holder, BankName the institution.
type BankAccount struct {
	ID            string
	Name          string
	BankName      string
	AccountNumber string
	Logo          string
	IconURL       string
}

// DisplayLogo prefers the fully qualified icon URL over the relative logo
// path, matching how the platform serves bank artwork.
func (b BankAccount) DisplayLogo() string {
	if b.IconURL != "" {
		return b.IconURL
	}
	return b.Logo
}
