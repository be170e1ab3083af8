// Package bankdir serves the directory of eligible receiving accounts for
// donations. The list is read-only shared data; concurrent fetches are
// collapsed into one upstream call.
package bankdir

import (
	"context"

	"golang.org/x/sync/singleflight"

	"smpeduli/internal/domain"
)

// Gateway is the slice of the API client the directory needs.
type Gateway interface {
	Banks(ctx context.Context) ([]domain.BankAccount, error)
}

// Provider fetches the receiving-account list.
type Provider struct {
	gw    Gateway
	group singleflight.Group
}

func NewProvider(gw Gateway) *Provider {
	return &Provider{gw: gw}
}

// Banks returns the eligible receiving accounts in server order. Concurrent
// callers share a single in-flight fetch.
func (p *Provider) Banks(ctx context.Context) ([]domain.BankAccount, error) {
	v, err, _ := p.group.Do("banks", func() (any, error) {
		return p.gw.Banks(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.BankAccount), nil
}

// DefaultSelection returns the account id that should be pre-selected when
// a freshly loaded list is non-empty: the first entry, per platform policy.
func DefaultSelection(banks []domain.BankAccount) string {
	if len(banks) == 0 {
		return ""
	}
	return banks[0].ID
}
