package observability

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Metric names recorded by habitlog.
const (
	MetricOperationTotal    = "habitlog.operation.total"
	MetricOperationDuration = "habitlog.operation.duration"
	MetricOperationErrors   = "habitlog.operation.errors"

	MetricJournalsSubmitted = "habitlog.journals.submitted"
	MetricJournalsRejected  = "habitlog.journals.rejected"
	MetricJournalsDeleted   = "habitlog.journals.deleted"

	MetricProgressUpserts  = "habitlog.progress.upserts"
	MetricProgressFailures = "habitlog.progress.failures"

	MetricCacheHits   = "habitlog.cache.hits"
	MetricCacheMisses = "habitlog.cache.misses"
	MetricCacheErrors = "habitlog.cache.errors"

	MetricHTTPRequests = "habitlog.http.requests"
	MetricHTTPDuration = "habitlog.http.duration"
)

// Metrics records application metrics.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Gauge(name string, value float64, tags ...Tag)
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag is a metric label.
type Tag struct {
	Key   string
	Value string
}

// T creates a new Tag.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, int64, ...Tag)        {}
func (NoopMetrics) Gauge(string, float64, ...Tag)        {}
func (NoopMetrics) Timing(string, time.Duration, ...Tag) {}

// InMemoryMetrics keeps metrics in memory. It backs the /metrics endpoint in
// single-process deployments and is used by tests.
type InMemoryMetrics struct {
	mu       sync.RWMutex
	counters map[string]int64
	gauges   map[string]float64
	timings  map[string][]time.Duration
}

// NewInMemoryMetrics creates a new in-memory metrics collector.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		counters: make(map[string]int64),
		gauges:   make(map[string]float64),
		timings:  make(map[string][]time.Duration),
	}
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[formatKey(name, tags)] += value
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[formatKey(name, tags)] = value
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := formatKey(name, tags)
	m.timings[key] = append(m.timings[key], duration)
}

// GetCounter returns the current value of a counter.
func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[formatKey(name, tags)]
}

// GetGauge returns the current value of a gauge.
func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gauges[formatKey(name, tags)]
}

// GetTimings returns all recorded durations.
func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]time.Duration(nil), m.timings[formatKey(name, tags)]...)
}

// Snapshot summarises every metric. Timings report count and mean in
// milliseconds.
type Snapshot struct {
	Counters map[string]int64          `json:"counters"`
	Gauges   map[string]float64        `json:"gauges"`
	Timings  map[string]TimingSnapshot `json:"timings"`
}

// TimingSnapshot summarises one timing series.
type TimingSnapshot struct {
	Count  int     `json:"count"`
	MeanMS float64 `json:"mean_ms"`
}

// Snapshot returns a copy of the current values.
func (m *InMemoryMetrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{
		Counters: make(map[string]int64, len(m.counters)),
		Gauges:   make(map[string]float64, len(m.gauges)),
		Timings:  make(map[string]TimingSnapshot, len(m.timings)),
	}
	for k, v := range m.counters {
		s.Counters[k] = v
	}
	for k, v := range m.gauges {
		s.Gauges[k] = v
	}
	for k, series := range m.timings {
		var total time.Duration
		for _, d := range series {
			total += d
		}
		mean := 0.0
		if len(series) > 0 {
			mean = float64(total.Microseconds()) / float64(len(series)) / 1000
		}
		s.Timings[k] = TimingSnapshot{Count: len(series), MeanMS: mean}
	}
	return s
}

// formatKey renders name with its tags sorted by key, so tag order does not
// split a series.
func formatKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := append([]Tag(nil), tags...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	var b strings.Builder
	b.WriteString(name)
	for _, t := range sorted {
		b.WriteString(":")
		b.WriteString(t.Key)
		b.WriteString("=")
		b.WriteString(t.Value)
	}
	return b.String()
}
