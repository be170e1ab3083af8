package bankdir

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"smpeduli/internal/domain"
)

type stubGateway struct {
	calls   atomic.Int64
	release chan struct{}
	banks   []domain.BankAccount
	err     error
}

func (s *stubGateway) Banks(ctx context.Context) ([]domain.BankAccount, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	return s.banks, s.err
}

func TestBanksPassesThrough(t *testing.T) {
	gw := &stubGateway{banks: []domain.BankAccount{{ID: "B1"}, {ID: "B2"}}}
	p := NewProvider(gw)

	banks, err := p.Banks(context.Background())
	if err != nil {
		t.Fatalf("banks: %v", err)
	}
	if len(banks) != 2 || banks[0].ID != "B1" {
		t.Fatalf("banks = %+v", banks)
	}
}

func TestBanksPropagatesError(t *testing.T) {
	gw := &stubGateway{err: errors.New("boom")}
	p := NewProvider(gw)

	if _, err := p.Banks(context.Background()); err == nil {
		t.Fatalf("expected upstream error")
	}
}

func TestBanksCollapsesConcurrentFetches(t *testing.T) {
	gw := &stubGateway{
		banks:   []domain.BankAccount{{ID: "B1"}},
		release: make(chan struct{}),
	}
	p := NewProvider(gw)

	const workers = 8
	var wg sync.WaitGroup
	started := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started <- struct{}{}
			if _, err := p.Banks(context.Background()); err != nil {
				t.Errorf("banks: %v", err)
			}
		}()
	}
	for i := 0; i < workers; i++ {
		<-started
	}
	// give the goroutines a beat to reach the singleflight door
	time.Sleep(50 * time.Millisecond)
	close(gw.release)
	wg.Wait()

	if calls := gw.calls.Load(); calls >= workers {
		t.Fatalf("upstream calls = %d, want fewer than %d", calls, workers)
	}
}

func TestDefaultSelection(t *testing.T) {
	if got := DefaultSelection(nil); got != "" {
		t.Fatalf("empty list selection = %q, want empty", got)
	}
	banks := []domain.BankAccount{{ID: "B7"}, {ID: "B2"}}
	if got := DefaultSelection(banks); got != "B7" {
		t.Fatalf("selection = %q, want first entry B7", got)
	}
}
