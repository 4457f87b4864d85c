// Package cache stores composed progress reports in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/progress/domain"
	"github.com/habitlog/habitlog/pkg/observability"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

const keyPrefix = "habitlog:progress"

// Config configures the report cache.
type Config struct {
	TTL                 time.Duration
	OperationTimeout    time.Duration
	BreakerTimeout      time.Duration
	ConsecutiveFailures uint32
}

// DefaultConfig returns the default cache settings.
func DefaultConfig() Config {
	return Config{
		TTL:                 5 * time.Minute,
		OperationTimeout:    200 * time.Millisecond,
		BreakerTimeout:      30 * time.Second,
		ConsecutiveFailures: 3,
	}
}

// RedisReportCache implements domain.ReportCache. All reports of a user and
// category live in one hash keyed by the requested week count, so a single
// DEL invalidates every variant.
type RedisReportCache struct {
	client  redis.UniversalClient
	breaker *gobreaker.CircuitBreaker[any]
	cfg     Config
	metrics observability.Metrics
	logger  *slog.Logger
}

// NewRedisReportCache creates a new cache over client.
func NewRedisReportCache(client redis.UniversalClient, cfg Config, metrics observability.Metrics, logger *slog.Logger) *RedisReportCache {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	defaults := DefaultConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = defaults.TTL
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = defaults.BreakerTimeout
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = defaults.ConsecutiveFailures
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "progress-cache",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &RedisReportCache{
		client:  client,
		breaker: breaker,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
}

// Key returns the hash key for a user and category.
func Key(userID, categoryID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, userID, categoryID)
}

// Get returns the cached report for weeks. Errors count as misses.
func (c *RedisReportCache) Get(ctx context.Context, userID, categoryID uuid.UUID, weeks int) (*domain.Report, bool) {
	raw, err := c.execute(ctx, func(ctx context.Context) (any, error) {
		return c.client.HGet(ctx, Key(userID, categoryID), strconv.Itoa(weeks)).Bytes()
	})
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.DebugContext(ctx, "progress cache read failed", "error", err)
			c.metrics.Counter(observability.MetricCacheErrors, 1, observability.T("op", "get"))
		}
		c.metrics.Counter(observability.MetricCacheMisses, 1)
		return nil, false
	}

	var report domain.Report
	if err := json.Unmarshal(raw.([]byte), &report); err != nil {
		c.logger.WarnContext(ctx, "discarding unreadable cached progress", "error", err)
		c.Invalidate(ctx, userID, categoryID)
		c.metrics.Counter(observability.MetricCacheMisses, 1)
		return nil, false
	}
	c.metrics.Counter(observability.MetricCacheHits, 1)
	return &report, true
}

// Set stores report for weeks and refreshes the hash expiry.
func (c *RedisReportCache) Set(ctx context.Context, userID, categoryID uuid.UUID, weeks int, report *domain.Report) {
	if report == nil {
		return
	}
	body, err := json.Marshal(report)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to encode progress for cache", "error", err)
		return
	}

	key := Key(userID, categoryID)
	_, err = c.execute(ctx, func(ctx context.Context) (any, error) {
		pipe := c.client.TxPipeline()
		pipe.HSet(ctx, key, strconv.Itoa(weeks), body)
		pipe.Expire(ctx, key, c.cfg.TTL)
		_, err := pipe.Exec(ctx)
		return nil, err
	})
	if err != nil {
		c.logger.DebugContext(ctx, "progress cache write failed", "error", err)
		c.metrics.Counter(observability.MetricCacheErrors, 1, observability.T("op", "set"))
	}
}

// Invalidate drops every cached report of the user and category.
func (c *RedisReportCache) Invalidate(ctx context.Context, userID, categoryID uuid.UUID) {
	_, err := c.execute(ctx, func(ctx context.Context) (any, error) {
		return nil, c.client.Del(ctx, Key(userID, categoryID)).Err()
	})
	if err != nil {
		c.logger.WarnContext(ctx, "progress cache invalidation failed",
			"user_id", userID,
			"category_id", categoryID,
			"error", err,
		)
		c.metrics.Counter(observability.MetricCacheErrors, 1, observability.T("op", "invalidate"))
	}
}

// Ping checks the Redis connection for health reporting.
func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisReportCache) execute(ctx context.Context, op func(ctx context.Context) (any, error)) (any, error) {
	return c.breaker.Execute(func() (any, error) {
		opCtx, cancel := context.WithTimeout(ctx, c.cfg.OperationTimeout)
		defer cancel()
		return op(opCtx)
	})
}

// State reports the breaker state.
func (c *RedisReportCache) State() gobreaker.State {
	return c.breaker.State()
}
