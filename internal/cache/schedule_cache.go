// Package cache holds the redis-backed schedule cache. The cache is an
// explicit dependency with an explicit TTL rather than hidden process-wide
// state, so call sites control exactly what is cached and for how long.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hokedu/tuition-engine/internal/domain"
)

type ScheduleCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewScheduleCache builds a schedule cache. A nil client disables caching;
// every method degrades to a miss.
func NewScheduleCache(rdb *redis.Client, ttl time.Duration) *ScheduleCache {
	return &ScheduleCache{rdb: rdb, ttl: ttl}
}

// Key builds the cache key for one student's billing year.
func (c *ScheduleCache) Key(studentID string, year int) string {
	return fmt.Sprintf("schedule:%s:%d", studentID, year)
}

// Get returns the cached schedule and whether it was present.
func (c *ScheduleCache) Get(ctx context.Context, studentID string, year int) ([]*domain.MonthlyObligation, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, c.Key(studentID, year)).Result()
	if err != nil {
		return nil, false
	}

	var schedule []*domain.MonthlyObligation
	if err := json.Unmarshal([]byte(raw), &schedule); err != nil {
		return nil, false
	}

	return schedule, true
}

// Set stores a schedule snapshot under the cache TTL. Failures are returned
// but callers treat the cache as best-effort.
func (c *ScheduleCache) Set(ctx context.Context, studentID string, year int, schedule []*domain.MonthlyObligation) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	raw, err := json.Marshal(schedule)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, c.Key(studentID, year), raw, c.ttl).Err()
}

// Invalidate drops the cached schedule for one student year.
func (c *ScheduleCache) Invalidate(ctx context.Context, studentID string, year int) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	return c.rdb.Del(ctx, c.Key(studentID, year)).Err()
}
