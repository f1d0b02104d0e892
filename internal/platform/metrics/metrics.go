package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps process-wide request and job counters.
type Collector struct {
	totalRequests   atomic.Uint64
	errorRequests   atomic.Uint64
	rateLimited     atomic.Uint64
	totalDurationMs atomic.Uint64
	jobsCompleted   atomic.Uint64
	jobsFailed      atomic.Uint64
	startedAt       time.Time
}

type Snapshot struct {
	RequestsTotal    uint64  `json:"requestsTotal"`
	ErrorsTotal      uint64  `json:"errorsTotal"`
	RateLimitedTotal uint64  `json:"rateLimitedTotal"`
	AvgDurationMs    float64 `json:"avgDurationMs"`
	TotalDurationMs  uint64  `json:"totalDurationMs"`
	JobsCompleted    uint64  `json:"jobsCompleted"`
	JobsFailed       uint64  `json:"jobsFailed"`
	UptimeSeconds    int64   `json:"uptimeSeconds"`
}

func New() *Collector {
	return &Collector{startedAt: time.Now()}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.totalRequests.Add(1)
	if status >= 500 {
		c.errorRequests.Add(1)
	}
	if status == 429 {
		c.rateLimited.Add(1)
	}
	c.totalDurationMs.Add(uint64(duration.Milliseconds()))
}

func (c *Collector) RecordJob(ok bool) {
	if ok {
		c.jobsCompleted.Add(1)
		return
	}
	c.jobsFailed.Add(1)
}

func (c *Collector) Snapshot() Snapshot {
	snap := Snapshot{
		RequestsTotal:    c.totalRequests.Load(),
		ErrorsTotal:      c.errorRequests.Load(),
		RateLimitedTotal: c.rateLimited.Load(),
		TotalDurationMs:  c.totalDurationMs.Load(),
		JobsCompleted:    c.jobsCompleted.Load(),
		JobsFailed:       c.jobsFailed.Load(),
		UptimeSeconds:    int64(time.Since(c.startedAt).Seconds()),
	}
	if snap.RequestsTotal > 0 {
		snap.AvgDurationMs = float64(snap.TotalDurationMs) / float64(snap.RequestsTotal)
	}
	return snap
}
