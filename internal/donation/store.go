package donation

import (
	"context"
	"sync"
	"time"
)

// Store holds live workflow instances keyed by id. An instance that goes
// untouched for the TTL is treated as abandoned and destroyed, taking its
// intake data and any pending proof with it.
type Store struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]*Workflow
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		ttl:   ttl,
		items: make(map[string]*Workflow),
	}
}

// Put registers a workflow instance.
func (s *Store) Put(w *Workflow) {
	s.mu.Lock()
	s.items[w.ID] = w
	s.mu.Unlock()
}

// Get returns a live instance and marks it active. Expired instances are
// dropped on access.
func (s *Store) Get(id string) (*Workflow, bool) {
	s.mu.Lock()
	w, ok := s.items[id]
	if ok && time.Since(w.LastActive()) > s.ttl {
		delete(s.items, id)
		s.mu.Unlock()
		return nil, false
	}
	s.mu.Unlock()
	if ok {
		w.Touch()
	}
	return w, ok
}

// Delete destroys an instance.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// Len reports the number of live instances.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep removes every instance idle past the TTL and reports how many were
// dropped.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, w := range s.items {
		if now.Sub(w.LastActive()) > s.ttl {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until the context is cancelled.
func (s *Store) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}
