// internal/jobs/cache.go
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"interview-portal/internal/common/logger"
	"interview-portal/internal/common/metrics"
)

// CachedLookup fronts another Lookup with Redis. Only found jobs are
// cached; API reported messages and failures always go to the source.
type CachedLookup struct {
	next   Lookup
	redis  redis.Cmdable
	ttl    time.Duration
	prefix string
	log    logger.Logger
}

func NewCachedLookup(next Lookup, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedLookup {
	return &CachedLookup{next: next, redis: rdb, ttl: ttl, prefix: "portal:job:", log: log}
}

func (c *CachedLookup) key(jobID string) string {
	return c.prefix + jobID
}

func (c *CachedLookup) GetByID(ctx context.Context, jobID string) (LookupResult, error) {
	if jobID == "" {
		return LookupResult{}, ErrJobIDRequired
	}

	raw, err := c.redis.Get(ctx, c.key(jobID)).Bytes()
	switch {
	case err == nil:
		var res LookupResult
		if jerr := json.Unmarshal(raw, &res); jerr == nil && res.Found() {
			metrics.JobCacheLookups.WithLabelValues("hit").Inc()
			return res, nil
		}
		c.log.Warn("Discarding unreadable cached job", map[string]interface{}{"job_id": jobID})
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("Job cache read failed", map[string]interface{}{"job_id": jobID, "error": err})
	}
	metrics.JobCacheLookups.WithLabelValues("miss").Inc()

	res, err := c.next.GetByID(ctx, jobID)
	if err != nil || !res.Found() {
		return res, err
	}

	if buf, merr := json.Marshal(res); merr == nil {
		if serr := c.redis.Set(ctx, c.key(jobID), buf, c.ttl).Err(); serr != nil {
			c.log.Warn("Job cache write failed", map[string]interface{}{"job_id": jobID, "error": serr})
		}
	}
	return res, nil
}

// Invalidate drops a cached job.
func (c *CachedLookup) Invalidate(ctx context.Context, jobID string) error {
	return c.redis.Del(ctx, c.key(jobID)).Err()
}
