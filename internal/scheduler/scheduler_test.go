package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/rhythm-forecast/internal/weather"
)

type fakeRefresher struct {
	mu     sync.Mutex
	calls  map[string]int
	failOn string
}

func newFakeRefresher(failOn string) *fakeRefresher {
	return &fakeRefresher{calls: make(map[string]int), failOn: failOn}
}

func (f *fakeRefresher) Refresh(ctx context.Context, city weather.City) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[city.Name]++
	if city.Name == f.failOn {
		return errors.New("upstream down")
	}
	return nil
}

func (f *fakeRefresher) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCities() []weather.City {
	return []weather.City{{Name: "Seoul"}, {Name: "Busan"}, {Name: "Osaka"}}
}

func TestRunOnce_RefreshesEveryCity(t *testing.T) {
	r := newFakeRefresher("Busan")
	s := New(testCities(), time.Minute, r, quietLogger())

	failed := s.RunOnce(context.Background())

	assert.Equal(t, 1, failed)
	for _, c := range testCities() {
		assert.Equal(t, 1, r.count(c.Name), c.Name)
	}
}

func TestStart_RunsImmediately(t *testing.T) {
	r := newFakeRefresher("")
	s := New([]weather.City{{Name: "Seoul"}}, time.Hour, r, quietLogger())

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return r.count("Seoul") >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestStart_NoCities(t *testing.T) {
	s := New(nil, 0, newFakeRefresher(""), nil)
	assert.NoError(t, s.Start())
	assert.Equal(t, defaultInterval, s.interval)
	s.Stop()
}
