package blocked

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps blocked dates in process memory, one instance per server
// or test.
type MemoryStore struct {
	mu    sync.Mutex
	dates map[time.Time]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{dates: make(map[time.Time]struct{})}
}

func (s *MemoryStore) Add(_ context.Context, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dates[date]; ok {
		return ErrAlreadyBlocked
	}
	s.dates[date] = struct{}{}
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dates[date]; !ok {
		return ErrNotBlocked
	}
	delete(s.dates, date)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dates := make([]time.Time, 0, len(s.dates))
	for d := range s.dates {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}
