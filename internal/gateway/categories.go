package gateway

import (
	"context"
	"fmt"
	"net/url"

	"smpeduli/internal/domain"
)

type categoryPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type subCategoryPayload struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

// Categories fetches the flat category lookup list.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var payload []categoryPayload
	if err := c.get(ctx, "/api/categories", nil, &payload); err != nil {
		return nil, fmt.Errorf("gateway: list categories: %w", err)
	}
	categories := make([]domain.Category, 0, len(payload))
	for _, item := range payload {
		categories = append(categories, domain.Category{ID: item.ID, Name: CleanString(item.Name)})
	}
	return categories, nil
}

// SubCategories fetches the sub-category lookup list scoped to one category.
func (c *Client) SubCategories(ctx context.Context, categoryID string) ([]domain.SubCategory, error) {
	query := url.Values{}
	query.Set("category_id", categoryID)

	var payload []subCategoryPayload
	if err := c.get(ctx, "/api/new-sub-categories", query, &payload); err != nil {
		return nil, fmt.Errorf("gateway: list sub-categories: %w", err)
	}
	subs := make([]domain.SubCategory, 0, len(payload))
	for _, item := range payload {
		subs = append(subs, domain.SubCategory{
			ID:         item.ID,
			CategoryID: item.CategoryID,
			Name:       CleanString(item.Name),
		})
	}
	return subs, nil
}
