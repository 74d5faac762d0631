package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/rinkstats/internal/domain/gamestats"
	"github.com/okian/rinkstats/pkg/metrics"
)

// MemoryStore keeps reports in a map. Reports are shared, not copied.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]*gamestats.Report
	closed bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	metrics.UpdateStoreGames(0)
	return &MemoryStore{byID: make(map[string]*gamestats.Report)}
}

// Put implements Store.Put.
func (s *MemoryStore) Put(_ context.Context, r *gamestats.Report) error {
	if err := validate(r); err != nil {
		return err
	}
	start := time.Now()
	defer func() { metrics.RecordStoreWrite(time.Since(start)) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.byID[r.GameID] = r
	metrics.UpdateStoreGames(len(s.byID))
	return nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, gameID string) (*gamestats.Report, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreRead(time.Since(start)) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

// List implements Store.List.
func (s *MemoryStore) List(_ context.Context, limit int) ([]Entry, error) {
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	out := make([]Entry, 0, len(s.byID))
	for _, r := range s.byID {
		out = append(out, entryOf(r))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Close implements Store.Close. Reads keep working after Close.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
