package booking

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps bookings in process memory. It exists for deployments
// without a database and for tests; construct one per server (or per test)
// and pass it by reference, there is no package-level state.
type MemoryStore struct {
	mu       sync.Mutex
	nextID   int64
	bookings []*Booking
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Create(_ context.Context, b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = s.nextID
	s.nextID++
	b.Status = StatusPending
	b.CreatedAt = time.Now().UTC()

	saved := *b
	s.bookings = append(s.bookings, &saved)
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id int64) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.find(id)
	if b == nil {
		return nil, ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (s *MemoryStore) ListAll(_ context.Context) ([]*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(func(*Booking) bool { return true }), nil
}

func (s *MemoryStore) ListActive(_ context.Context) ([]*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(func(b *Booking) bool {
		return b.Status == StatusPending || b.Status == StatusPaid
	}), nil
}

func (s *MemoryStore) MarkPaid(_ context.Context, id int64, sessionID string) (*Booking, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.find(id)
	if b == nil {
		return nil, false, ErrNotFound
	}

	transitioned := false
	if b.Status == StatusPending {
		b.Status = StatusPaid
		b.StripeSessionID = sessionID
		transitioned = true
	}

	copied := *b
	return &copied, transitioned, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.bookings {
		if b.ID == id {
			s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// find returns the stored booking, not a copy. Callers hold the lock.
func (s *MemoryStore) find(id int64) *Booking {
	for _, b := range s.bookings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// snapshot copies matching bookings, newest first. Callers hold the lock.
func (s *MemoryStore) snapshot(keep func(*Booking) bool) []*Booking {
	var out []*Booking
	for _, b := range s.bookings {
		if keep(b) {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
