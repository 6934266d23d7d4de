package store

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/i474232898/weather-query/internal/weather"
)

var _ weather.Store = (*MemoryStore)(nil)

var (
	// ErrNotLoaded is returned when no dataset has been published yet.
	ErrNotLoaded = errors.New("weather dataset not loaded")
)

// MemoryStore keeps the current dataset behind an atomic pointer. Readers never
// lock; Publish swaps the whole snapshot.
type MemoryStore struct {
	current atomic.Pointer[weather.Dataset]

	mu         sync.Mutex
	history    []weather.Publication
	maxHistory int // max number of publications kept (<= 0 = unlimited)
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(maxHistory int) *MemoryStore {
	return &MemoryStore{maxHistory: maxHistory}
}

// Current returns the most recently published dataset.
func (s *MemoryStore) Current() (*weather.Dataset, error) {
	ds := s.current.Load()
	if ds == nil {
		return nil, ErrNotLoaded
	}
	return ds, nil
}

// Publish makes ds the current dataset and appends it to the history.
func (s *MemoryStore) Publish(ds *weather.Dataset) {
	if ds == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Store(ds)

	s.history = append(s.history, weather.Publication{
		Version:  ds.Version(),
		Source:   ds.Source(),
		LoadedAt: ds.LoadedAt(),
		Records:  ds.Len(),
	})
	if s.maxHistory > 0 && len(s.history) > s.maxHistory {
		over := len(s.history) - s.maxHistory
		s.history = append([]weather.Publication(nil), s.history[over:]...)
	}
}

// History returns past publications, oldest first.
func (s *MemoryStore) History() []weather.Publication {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]weather.Publication(nil), s.history...)
}
