package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryMetrics(t *testing.T) {
	m := NewInMemoryMetrics()

	m.Counter(MetricJournalsSubmitted, 1, T("outcome", "accepted"))
	m.Counter(MetricJournalsSubmitted, 2, T("outcome", "accepted"))
	m.Counter(MetricJournalsSubmitted, 1, T("outcome", "duplicate"))
	m.Gauge("habitlog.cache.size", 4)
	m.Timing(MetricHTTPDuration, 20*time.Millisecond)
	m.Timing(MetricHTTPDuration, 40*time.Millisecond)

	assert.Equal(t, int64(3), m.GetCounter(MetricJournalsSubmitted, T("outcome", "accepted")))
	assert.Equal(t, int64(1), m.GetCounter(MetricJournalsSubmitted, T("outcome", "duplicate")))
	assert.Equal(t, 4.0, m.GetGauge("habitlog.cache.size"))
	assert.Len(t, m.GetTimings(MetricHTTPDuration), 2)

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.Counters["habitlog.journals.submitted:outcome=accepted"])
	assert.Equal(t, TimingSnapshot{Count: 2, MeanMS: 30}, snap.Timings[MetricHTTPDuration])
}

func TestFormatKey_TagOrder(t *testing.T) {
	a := formatKey("m", []Tag{T("route", "/x"), T("method", "GET")})
	b := formatKey("m", []Tag{T("method", "GET"), T("route", "/x")})

	assert.Equal(t, "m:method=GET:route=/x", a)
	assert.Equal(t, a, b)
	assert.Equal(t, "m", formatKey("m", nil))
}

func TestTimeOperation(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryMetrics()

	value, err := TimeOperation(ctx, nil, m, "progress.get", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, value)

	_, err = TimeOperation(ctx, nil, m, "progress.get", func() (int, error) { return 0, errors.New("boom") })
	assert.Error(t, err)

	tag := T("operation", "progress.get")
	assert.Equal(t, int64(2), m.GetCounter(MetricOperationTotal, tag))
	assert.Equal(t, int64(1), m.GetCounter(MetricOperationErrors, tag))
	assert.Len(t, m.GetTimings(MetricOperationDuration, tag), 2)
}

func TestHealthRegistry(t *testing.T) {
	ctx := context.Background()
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all healthy", func(t *testing.T) {
		r := NewHealthRegistry(time.Second)
		r.Register("database", PingChecker(ok, true))

		health := r.Check(ctx)

		assert.Equal(t, HealthStatusHealthy, health.Status)
		assert.Equal(t, HealthStatusHealthy, health.Checks["database"].Status)
	})

	t.Run("optional dependency degrades", func(t *testing.T) {
		r := NewHealthRegistry(time.Second)
		r.Register("database", PingChecker(ok, true))
		r.Register("redis", PingChecker(down, false))

		health := r.Check(ctx)

		assert.Equal(t, HealthStatusDegraded, health.Status)
		assert.Equal(t, "connection refused", health.Checks["redis"].Message)
	})

	t.Run("critical dependency fails", func(t *testing.T) {
		r := NewHealthRegistry(time.Second)
		r.Register("database", PingChecker(down, true))
		r.Register("redis", PingChecker(down, false))

		assert.Equal(t, HealthStatusUnhealthy, r.Check(ctx).Status)
	})

	t.Run("no checks", func(t *testing.T) {
		assert.Equal(t, HealthStatusHealthy, NewHealthRegistry(0).Check(ctx).Status)
	})
}
