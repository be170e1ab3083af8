package domain

// DonationDetail is the platform's view of a donation as returned by the
// status lookup endpoint. The donation id is issued by the remote service;
// this process only ever holds a copy.
type DonationDetail struct {
	ID                string
	Status            string
	TransactionNumber string
	Amount            int64
	Bank              *BankAccount
}
