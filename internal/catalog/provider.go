// Package catalog exposes read-only campaign, category and sub-category
// lookups over the platform gateway. Data is fetched fresh per page view;
// there is no cross-request cache.
package catalog

import (
	"context"

	"smpeduli/internal/domain"
	"smpeduli/internal/gateway"
)

// DefaultPageSize matches the campaign grid on the landing page.
const DefaultPageSize = 9

// Gateway is the slice of the API client the catalog needs.
type Gateway interface {
	ListCampaigns(ctx context.Context, params gateway.ListParams) ([]domain.Campaign, error)
	Campaign(ctx context.Context, id string) (*domain.Campaign, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	SubCategories(ctx context.Context, categoryID string) ([]domain.SubCategory, error)
}

// Provider serves campaign catalog reads.
type Provider struct {
	gw Gateway
}

func NewProvider(gw Gateway) *Provider {
	return &Provider{gw: gw}
}

// Filter narrows a campaign listing. A sub-category only makes sense inside
// its category, so an orphaned sub-category id is dropped.
type Filter struct {
	CategoryID    string
	SubCategoryID string
}

// Campaigns returns one page of campaign summaries in server order. Page
// numbers below 1 are clamped to the first page; non-positive sizes fall
// back to the default.
func (p *Provider) Campaigns(ctx context.Context, page, limit int, filter Filter) ([]domain.Campaign, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if filter.CategoryID == "" {
		filter.SubCategoryID = ""
	}
	return p.gw.ListCampaigns(ctx, gateway.ListParams{
		Page:          page,
		Limit:         limit,
		CategoryID:    filter.CategoryID,
		SubCategoryID: filter.SubCategoryID,
	})
}

// Campaign returns the full record for one campaign, including the optional
// bank reference and ordered fund-usage entries.
func (p *Provider) Campaign(ctx context.Context, id string) (*domain.Campaign, error) {
	if id == "" {
		return nil, domain.ErrNotFound
	}
	return p.gw.Campaign(ctx, id)
}

// Categories returns the flat category lookup list.
func (p *Provider) Categories(ctx context.Context) ([]domain.Category, error) {
	return p.gw.Categories(ctx)
}

// SubCategories returns the sub-categories for exactly one category. Callers
// re-fetch whenever the category selection changes, and any prior
// sub-category selection must be cleared at that point.
func (p *Provider) SubCategories(ctx context.Context, categoryID string) ([]domain.SubCategory, error) {
	if categoryID == "" {
		return nil, nil
	}
	return p.gw.SubCategories(ctx, categoryID)
}
