package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hokedu/tuition-engine/internal/domain"
)

func TestScheduleCache_Key(t *testing.T) {
	c := NewScheduleCache(nil, time.Minute)
	assert.Equal(t, "schedule:S001:2025", c.Key("S001", 2025))
}

func TestScheduleCache_NilClientDegradesToMiss(t *testing.T) {
	c := NewScheduleCache(nil, time.Minute)
	ctx := context.Background()

	schedule, ok := c.Get(ctx, "S001", 2025)
	assert.False(t, ok)
	assert.Nil(t, schedule)

	assert.NoError(t, c.Set(ctx, "S001", 2025, []*domain.MonthlyObligation{{PeriodID: "2025-02"}}))
	assert.NoError(t, c.Invalidate(ctx, "S001", 2025))
}
