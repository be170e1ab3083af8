package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"smpeduli/internal/domain"
)

// ListParams narrows a campaign listing. CategoryID and SubCategoryID are
// optional filter identifiers; empty values are omitted from the query.
type ListParams struct {
	Page          int
	Limit         int
	CategoryID    string
	SubCategoryID string
}

type raiserPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProfileImg string `json:"profile_img"`
	IsVerified int    `json:"is_verified"`
}

type bankPayload struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	Logo          string `json:"logo"`
	IconURL       string `json:"icon_url"`
}

type fundUsagePayload struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Amount flexInt64 `json:"amount"`
}

type campaignPayload struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	TotalFund   flexInt64          `json:"total_fund"`
	CurrentFund flexInt64          `json:"current_fund"`
	HeroImg     string             `json:"hero_img"`
	Description string             `json:"description"`
	CountDay    flexInt64          `json:"count_day_string"`
	FunderCount flexInt64          `json:"funder_count"`
	Raiser      *raiserPayload     `json:"raiser"`
	Bank        *bankPayload       `json:"bank"`
	FundUsages  []fundUsagePayload `json:"fund_usages"`
}

func (p campaignPayload) toDomain() domain.Campaign {
	c := domain.Campaign{
		ID:          p.ID,
		Name:        CleanString(p.Name),
		TargetFund:  int64(p.TotalFund),
		CurrentFund: int64(p.CurrentFund),
		HeroImg:     CleanString(p.HeroImg),
		Description: CleanString(p.Description),
		DaysLeft:    int(p.CountDay),
		FunderCount: int(p.FunderCount),
	}
	if p.Raiser != nil {
		c.Raiser = &domain.Raiser{
			ID:         p.Raiser.ID,
			Name:       CleanString(p.Raiser.Name),
			ProfileImg: CleanString(p.Raiser.ProfileImg),
			IsVerified: p.Raiser.IsVerified != 0,
		}
	}
	if p.Bank != nil {
		bank := p.Bank.toDomain()
		c.Bank = &bank
	}
	for _, usage := range p.FundUsages {
		c.FundUsages = append(c.FundUsages, domain.FundUsage{
			ID:     usage.ID,
			Title:  CleanString(usage.Title),
			Amount: int64(usage.Amount),
		})
	}
	return c
}

func (p bankPayload) toDomain() domain.BankAccount {
	return domain.BankAccount{
		ID:            p.ID,
		Name:          CleanString(p.Name),
		BankName:      CleanString(p.BankName),
		AccountNumber: CleanString(p.AccountNumber),
		Logo:          CleanString(p.Logo),
		IconURL:       CleanString(p.IconURL),
	}
}

// ListCampaigns fetches one page of campaign summaries. Server order is
// preserved.
func (c *Client) ListCampaigns(ctx context.Context, params ListParams) ([]domain.Campaign, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("limit", strconv.Itoa(params.Limit))
	if params.CategoryID != "" {
		query.Set("category_id", params.CategoryID)
	}
	if params.SubCategoryID != "" {
		query.Set("sub_category_id", params.SubCategoryID)
	}

	var payload []campaignPayload
	if err := c.get(ctx, "/api/campaigns", query, &payload); err != nil {
		return nil, fmt.Errorf("gateway: list campaigns: %w", err)
	}

	campaigns := make([]domain.Campaign, 0, len(payload))
	for _, item := range payload {
		campaigns = append(campaigns, item.toDomain())
	}
	c.logger.Debug().Int("count", len(campaigns)).Int("page", params.Page).Msg("gateway: listed campaigns")
	return campaigns, nil
}

// Campaign fetches one full campaign record, including the optional bank
// reference and ordered fund-usage entries.
func (c *Client) Campaign(ctx context.Context, id string) (*domain.Campaign, error) {
	var payload campaignPayload
	if err := c.get(ctx, "/api/campaigns/"+url.PathEscape(id), nil, &payload); err != nil {
		return nil, fmt.Errorf("gateway: fetch campaign %s: %w", id, err)
	}
	campaign := payload.toDomain()
	return &campaign, nil
}
