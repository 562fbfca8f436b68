package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for requests and triage runs.
type Metrics struct {
	mu             sync.Mutex
	requestCount   map[string]int64
	errorCount     map[string]int64
	triageTotal    int64
	triageFailed   int64
	triageDuration time.Duration
	cacheHits      int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordTriage tracks the outcome and duration of one triage run.
func (m *Metrics) RecordTriage(failed bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triageTotal++
	if failed {
		m.triageFailed++
	}
	m.triageDuration += duration
}

// RecordCacheHit counts analyses served from the cache.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits++
}

// TriageSnapshot is a point-in-time view of triage counters.
type TriageSnapshot struct {
	Total           int64
	Failed          int64
	CacheHits       int64
	TotalDurationMS int64
}

// TriageCounters returns a copy of the triage counters.
func (m *Metrics) TriageCounters() TriageSnapshot {
	if m == nil {
		return TriageSnapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return TriageSnapshot{
		Total:           m.triageTotal,
		Failed:          m.triageFailed,
		CacheHits:       m.cacheHits,
		TotalDurationMS: m.triageDuration.Milliseconds(),
	}
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
