package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"careers-api/internal/common/logger"
	"careers-api/internal/common/metrics"
)

const listingsCacheKey = "careers:job_listings"

// CachedSource is a read-through cache in front of another Source. Cache
// failures are logged and the inner source is used.
type CachedSource struct {
	inner  Source
	redis  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSource(inner Source, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedSource {
	return &CachedSource{inner: inner, redis: rdb, ttl: ttl, logger: log}
}

func (s *CachedSource) Name() string {
	return s.inner.Name()
}

func (s *CachedSource) ListJobs(ctx context.Context) ([]Job, error) {
	cached, err := s.redis.Get(ctx, listingsCacheKey).Bytes()
	switch {
	case err == nil:
		var jobs []Job
		if jsonErr := json.Unmarshal(cached, &jobs); jsonErr == nil {
			metrics.JobCacheLookups.WithLabelValues("hit").Inc()
			return jobs, nil
		}
		s.logger.Warn("discarding unreadable cached listings", map[string]interface{}{"key": listingsCacheKey})
		metrics.JobCacheLookups.WithLabelValues("corrupt").Inc()
	case errors.Is(err, redis.Nil):
		metrics.JobCacheLookups.WithLabelValues("miss").Inc()
	default:
		s.logger.Warn("job cache read failed", map[string]interface{}{"error": err.Error()})
		metrics.JobCacheLookups.WithLabelValues("error").Inc()
	}

	jobs, err := s.inner.ListJobs(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(jobs)
	if err == nil {
		err = s.redis.Set(ctx, listingsCacheKey, payload, s.ttl).Err()
	}
	if err != nil {
		s.logger.Warn("job cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return jobs, nil
}
