package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/progress/domain"
	"github.com/habitlog/habitlog/pkg/observability"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
)

func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestKey(t *testing.T) {
	userID := uuid.MustParse("6f1c2d3e-0000-4000-8000-0000000000f1")
	categoryID := uuid.MustParse("6f1c2d3e-0000-4000-8000-000000000001")

	assert.Equal(t,
		"habitlog:progress:6f1c2d3e-0000-4000-8000-0000000000f1:6f1c2d3e-0000-4000-8000-000000000001",
		Key(userID, categoryID))
}

func TestRedisReportCache_Unavailable(t *testing.T) {
	ctx := context.Background()
	metrics := observability.NewInMemoryMetrics()
	c := NewRedisReportCache(unreachableClient(t), Config{ConsecutiveFailures: 2, BreakerTimeout: time.Minute}, metrics, nil)
	userID, categoryID := uuid.New(), uuid.New()

	report, ok := c.Get(ctx, userID, categoryID, 12)
	assert.False(t, ok)
	assert.Nil(t, report)

	c.Set(ctx, userID, categoryID, 12, &domain.Report{TotalJournals: 3})
	assert.Equal(t, gobreaker.StateOpen, c.State())

	c.Invalidate(ctx, userID, categoryID)
	_, ok = c.Get(ctx, userID, categoryID, 12)
	assert.False(t, ok)

	assert.Equal(t, int64(2), metrics.GetCounter(observability.MetricCacheMisses))
	assert.Equal(t, int64(0), metrics.GetCounter(observability.MetricCacheHits))
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricCacheErrors, observability.T("op", "set")))
	assert.Error(t, c.Ping(ctx))
}

func TestNewRedisReportCache_Defaults(t *testing.T) {
	c := NewRedisReportCache(unreachableClient(t), Config{}, nil, nil)

	assert.Equal(t, DefaultConfig(), c.cfg)
	assert.Equal(t, gobreaker.StateClosed, c.State())
	c.Set(context.Background(), uuid.New(), uuid.New(), 4, nil)
	assert.Equal(t, gobreaker.StateClosed, c.State())
}
