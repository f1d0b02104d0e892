package metrics

import (
	"testing"
	"time"
)

func TestCollectorSnapshot(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(500, 30*time.Millisecond)
	c.Record(429, 2*time.Millisecond)
	c.RecordJob(true)
	c.RecordJob(false)

	snap := c.Snapshot()
	if snap.RequestsTotal != 3 || snap.ErrorsTotal != 1 || snap.RateLimitedTotal != 1 {
		t.Fatalf("unexpected request counters %+v", snap)
	}
	if snap.TotalDurationMs != 42 || snap.AvgDurationMs != 14 {
		t.Fatalf("unexpected durations %+v", snap)
	}
	if snap.JobsCompleted != 1 || snap.JobsFailed != 1 {
		t.Fatalf("unexpected job counters %+v", snap)
	}
}
