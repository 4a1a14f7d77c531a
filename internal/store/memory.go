package store

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/rhythm-forecast/internal/common"
	"github.com/i474232898/rhythm-forecast/internal/weather"
)

var (
	// ErrNotFound is returned when no report is available for a given city.
	ErrNotFound = errors.New("no rhythm report for city")
)

// MemoryStore is a concurrency-safe in-memory store of recently generated
// reports, ordered by GeneratedAt per city.
type MemoryStore struct {
	mu sync.RWMutex

	// key: normalized city name
	data map[string][]weather.RhythmReport

	maxHistory int           // max reports per city
	maxAge     time.Duration // max report age
	clock      clockwork.Clock
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory or maxAge is <= 0, that limit is disabled.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return NewMemoryStoreWithClock(maxHistory, maxAge, clockwork.NewRealClock())
}

func NewMemoryStoreWithClock(maxHistory int, maxAge time.Duration, clock clockwork.Clock) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string][]weather.RhythmReport),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		clock:      clock,
	}
}

// SaveReport appends a report for its city and enforces retention.
func (s *MemoryStore) SaveReport(report weather.RhythmReport) {
	k := common.NormalizeKey(report.City)

	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.data[k], report)

	if s.maxHistory > 0 && len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}

	if s.maxAge > 0 {
		cutoff := s.clock.Now().Add(-s.maxAge)
		i := 0
		for i < len(history) && history[i].GeneratedAt.Before(cutoff) {
			i++
		}
		history = history[i:]
	}

	s.data[k] = history
}

// GetLatest returns the most recent report for a city.
func (s *MemoryStore) GetLatest(city string) (weather.RhythmReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.data[common.NormalizeKey(city)]
	if len(history) == 0 {
		return weather.RhythmReport{}, ErrNotFound
	}
	return history[len(history)-1], nil
}

// GetRange returns all reports for a city generated between from and to (inclusive).
func (s *MemoryStore) GetRange(city string, from, to time.Time) ([]weather.RhythmReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []weather.RhythmReport
	for _, r := range s.data[common.NormalizeKey(city)] {
		if !r.GeneratedAt.Before(from) && !r.GeneratedAt.After(to) {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
