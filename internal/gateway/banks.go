package gateway

import (
	"context"
	"fmt"

	"smpeduli/internal/domain"
)

// Banks fetches the list of eligible receiving accounts.
func (c *Client) Banks(ctx context.Context) ([]domain.BankAccount, error) {
	var payload []bankPayload
	if err := c.get(ctx, "/api/banks", nil, &payload); err != nil {
		return nil, fmt.Errorf("gateway: list banks: %w", err)
	}
	banks := make([]domain.BankAccount, 0, len(payload))
	for _, item := range payload {
		banks = append(banks, item.toDomain())
	}
	return banks, nil
}
