package observability

import (
	"testing"
	"time"
)

func TestTriageCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordTriage(false, 200*time.Millisecond)
	m.RecordTriage(true, 300*time.Millisecond)
	m.RecordCacheHit()

	snap := m.TriageCounters()
	if snap.Total != 2 {
		t.Errorf("total = %d, want 2", snap.Total)
	}
	if snap.Failed != 1 {
		t.Errorf("failed = %d, want 1", snap.Failed)
	}
	if snap.CacheHits != 1 {
		t.Errorf("cache hits = %d, want 1", snap.CacheHits)
	}
	if snap.TotalDurationMS != 500 {
		t.Errorf("duration = %dms, want 500ms", snap.TotalDurationMS)
	}
}

func TestNilMetricsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/x", "GET", 200, time.Millisecond)
	m.RecordTriage(false, time.Millisecond)
	m.RecordCacheHit()
	if snap := m.TriageCounters(); snap.Total != 0 {
		t.Errorf("nil metrics snapshot total = %d, want 0", snap.Total)
	}
}
