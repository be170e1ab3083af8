package donation

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestStorePutGet(t *testing.T) {
	s := NewStore(time.Minute)
	w := New("c1", "Campaign", &fakeGateway{}, zerolog.New(io.Discard))
	s.Put(w)

	got, ok := s.Get(w.ID)
	if !ok || got != w {
		t.Fatalf("Get returned %v, %v", got, ok)
	}
	if _, ok := s.Get("missing"); ok {
		t.Fatalf("unknown id should miss")
	}
}

func TestStoreExpiresAbandonedInstances(t *testing.T) {
	s := NewStore(10 * time.Millisecond)
	w := New("c1", "Campaign", &fakeGateway{}, zerolog.New(io.Discard))
	s.Put(w)

	time.Sleep(25 * time.Millisecond)
	if _, ok := s.Get(w.ID); ok {
		t.Fatalf("expired instance should be dropped on access")
	}
	if s.Len() != 0 {
		t.Fatalf("len = %d, want 0", s.Len())
	}
}

func TestStoreSweep(t *testing.T) {
	s := NewStore(10 * time.Millisecond)
	old := New("c1", "Old", &fakeGateway{}, zerolog.New(io.Discard))
	s.Put(old)

	time.Sleep(25 * time.Millisecond)
	fresh := New("c2", "Fresh", &fakeGateway{}, zerolog.New(io.Discard))
	s.Put(fresh)

	if removed := s.Sweep(time.Now()); removed != 1 {
		t.Fatalf("sweep removed %d, want 1", removed)
	}
	if _, ok := s.Get(fresh.ID); !ok {
		t.Fatalf("fresh instance should survive the sweep")
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore(time.Minute)
	w := New("c1", "Campaign", &fakeGateway{}, zerolog.New(io.Discard))
	s.Put(w)
	s.Delete(w.ID)
	if _, ok := s.Get(w.ID); ok {
		t.Fatalf("deleted instance should miss")
	}
}
