package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/i474232898/rhythm-forecast/internal/observability"
	"github.com/i474232898/rhythm-forecast/internal/weather"
)

// redisClient is the subset of *redis.Client used by CachedSource.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedSource decorates a SampleSource with a Redis-backed response cache
// keyed by source, point and horizon. Cache failures fall through to the source.
type CachedSource struct {
	inner   weather.SampleSource
	client  redisClient
	ttl     time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewCachedSource(inner weather.SampleSource, client redisClient, ttl time.Duration, logger *slog.Logger, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		client:  client,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

func (c *CachedSource) Name() string {
	return c.inner.Name()
}

func (c *CachedSource) FetchPoint(ctx context.Context, point weather.GeoPoint, days int) (weather.PointForecast, error) {
	key := cacheKey(c.inner.Name(), point, days)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var pf weather.PointForecast
		if jsonErr := json.Unmarshal(raw, &pf); jsonErr == nil {
			c.count("hit")
			return pf, nil
		}
		c.logger.Warn("discarding undecodable cache entry", "key", key)
		c.count("miss")
	case errors.Is(err, redis.Nil):
		c.count("miss")
	default:
		c.logger.Warn("cache lookup failed", "key", key, "error", err)
		c.count("error")
	}

	pf, err := c.inner.FetchPoint(ctx, point, days)
	if err != nil {
		return weather.PointForecast{}, err
	}

	// Cached entries carry no LocalNow, so hits fall back to the caller's clock.
	stored := pf
	stored.LocalNow = time.Time{}
	data, err := json.Marshal(stored)
	if err != nil {
		return pf, nil
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache store failed", "key", key, "error", err)
	}
	return pf, nil
}

func (c *CachedSource) count(result string) {
	if c.metrics != nil {
		c.metrics.SourceCache.WithLabelValues(result).Inc()
	}
}

func cacheKey(source string, p weather.GeoPoint, days int) string {
	return fmt.Sprintf("rhythm:forecast:%s:%.4f:%.4f:%d", source, p.Latitude, p.Longitude, days)
}
