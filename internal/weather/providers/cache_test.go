package providers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/rhythm-forecast/internal/observability"
	"github.com/i474232898/rhythm-forecast/internal/weather"
)

type fakeRedis struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

type countingSource struct {
	calls int
	err   error
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) FetchPoint(_ context.Context, p weather.GeoPoint, _ int) (weather.PointForecast, error) {
	s.calls++
	if s.err != nil {
		return weather.PointForecast{}, s.err
	}
	return weather.PointForecast{
		Point:    p,
		LocalNow: time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC),
		Hourly: []weather.SampleSlice{
			{Time: time.Date(2025, 7, 15, 11, 0, 0, 0, time.UTC), TemperatureC: 26.5, HumidityPct: 80},
		},
	}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCachedSource_MissThenHit(t *testing.T) {
	rdb := newFakeRedis()
	inner := &countingSource{}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedSource(inner, rdb, 10*time.Minute, discardLogger(), metrics)

	assert.Equal(t, "counting", cached.Name())

	first, err := cached.FetchPoint(context.Background(), testPoint, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 10*time.Minute, rdb.ttls[cacheKey("counting", testPoint, 3)])

	second, err := cached.FetchPoint(context.Background(), testPoint, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls, "served from cache")
	assert.False(t, first.LocalNow.IsZero())
	assert.True(t, second.LocalNow.IsZero(), "cached payload carries no local now")
	require.Len(t, second.Hourly, 1)
	assert.Equal(t, 26.5, second.Hourly[0].TemperatureC)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SourceCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SourceCache.WithLabelValues("hit")))

	_, err = cached.FetchPoint(context.Background(), testPoint, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "different horizon is a different key")
}

func TestCachedSource_RedisDownFallsThrough(t *testing.T) {
	rdb := newFakeRedis()
	rdb.getErr = errors.New("connection refused")
	rdb.setErr = errors.New("connection refused")
	inner := &countingSource{}
	cached := NewCachedSource(inner, rdb, time.Minute, discardLogger(), nil)

	pf, err := cached.FetchPoint(context.Background(), testPoint, 1)
	require.NoError(t, err)
	assert.Len(t, pf.Hourly, 1)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedSource_SourceErrorNotCached(t *testing.T) {
	rdb := newFakeRedis()
	inner := &countingSource{err: errors.New("boom")}
	cached := NewCachedSource(inner, rdb, time.Minute, discardLogger(), nil)

	_, err := cached.FetchPoint(context.Background(), testPoint, 1)
	require.Error(t, err)
	assert.Empty(t, rdb.data)
}

func TestCachedSource_CorruptEntryRefetched(t *testing.T) {
	rdb := newFakeRedis()
	rdb.data[cacheKey("counting", testPoint, 1)] = "{not json"
	inner := &countingSource{}
	cached := NewCachedSource(inner, rdb, time.Minute, discardLogger(), nil)

	_, err := cached.FetchPoint(context.Background(), testPoint, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
}
