package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"smpeduli/internal/domain"
)

// ReceiptField is the multipart form field the platform expects proof-of-payment
// uploads under.
const ReceiptField = "receipt_file"

// CreateDonationInput is the JSON body for donation creation. Message maps to
// the platform's optional doa field.
type CreateDonationInput struct {
	CampaignID  string `json:"campaign_id"`
	Amount      int64  `json:"amount"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"doa,omitempty"`
	BankID      string `json:"bank_id"`
}

type createDonationPayload struct {
	DonationID string `json:"donation_id"`
}

type donationDetailPayload struct {
	ID                string       `json:"id"`
	Status            string       `json:"status"`
	TransactionNumber string       `json:"transaction_number"`
	Amount            flexInt64    `json:"amount"`
	Bank              *bankPayload `json:"bank"`
}

// CreateDonation registers a new donation and returns the identifier issued
// by the platform. That identifier is the only handle for the later receipt
// confirmation.
func (c *Client) CreateDonation(ctx context.Context, input CreateDonationInput) (string, error) {
	var payload createDonationPayload
	if err := c.postJSON(ctx, "/api/donations", input, &payload); err != nil {
		return "", fmt.Errorf("gateway: create donation: %w", err)
	}
	if payload.DonationID == "" {
		return "", errors.New("gateway: create donation: empty donation id")
	}
	c.logger.Debug().Str("donation_id", payload.DonationID).Str("campaign_id", input.CampaignID).Msg("gateway: donation created")
	return payload.DonationID, nil
}

// ConfirmReceipt uploads the proof-of-payment image for a previously created
// donation. The donation id is a required parameter by design: confirmation
// without a prior successful creation is unrepresentable.
func (c *Client) ConfirmReceipt(ctx context.Context, donationID, filename string, file io.Reader) error {
	if donationID == "" {
		return errors.New("gateway: confirm receipt: donation id is required")
	}
	path := "/api/donations/" + url.PathEscape(donationID)
	if err := c.postMultipart(ctx, path, ReceiptField, filename, file, nil); err != nil {
		return fmt.Errorf("gateway: confirm receipt for %s: %w", donationID, err)
	}
	c.logger.Debug().Str("donation_id", donationID).Msg("gateway: receipt confirmed")
	return nil
}

// Donation fetches the platform's view of a donation: status, transaction
// number, bank info and amount.
func (c *Client) Donation(ctx context.Context, id string) (*domain.DonationDetail, error) {
	var payload donationDetailPayload
	if err := c.get(ctx, "/api/donations/"+url.PathEscape(id), nil, &payload); err != nil {
		return nil, fmt.Errorf("gateway: fetch donation %s: %w", id, err)
	}
	detail := &domain.DonationDetail{
		ID:                payload.ID,
		Status:            CleanString(payload.Status),
		TransactionNumber: CleanString(payload.TransactionNumber),
		Amount:            int64(payload.Amount),
	}
	if payload.Bank != nil {
		bank := payload.Bank.toDomain()
		detail.Bank = &bank
	}
	return detail, nil
}
