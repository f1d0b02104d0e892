package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"staffhive/internal/domain/leave"
	"staffhive/internal/domain/payroll"
	"staffhive/internal/platform/config"
	"staffhive/internal/platform/metrics"
)

const (
	JobLeaveRollover  = "leave_rollover"
	JobPayrollAutorun = "payroll_autorun"
	JobLeaveEmail     = "leave_email"
	JobLegacyImport   = "legacy_import"
)

var (
	ErrUnknownJob     = errors.New("unknown job type")
	ErrJobUnavailable = errors.New("job is not configured")
)

type LeaveRollover interface {
	RolloverYear(ctx context.Context, year int) (leave.RolloverSummary, error)
}

type PayrollRunner interface {
	GenerateAll(ctx context.Context, period string) (payroll.GenerateResult, error)
}

type Task func(context.Context) (any, error)

type Service struct {
	Runs    RunStore
	Cfg     config.Config
	Metrics *metrics.Collector
	Leave   LeaveRollover
	Payroll PayrollRunner

	queue chan job
	wg    sync.WaitGroup
	now   func() time.Time
}

type job struct {
	Type string
	Run  Task
}

func New(runs RunStore, cfg config.Config) *Service {
	return &Service{
		Runs:  runs,
		Cfg:   cfg,
		queue: make(chan job, 128),
		now:   time.Now,
	}
}

// Start launches the worker and the schedulers enabled in config. They stop
// when ctx is cancelled; Wait blocks until they have.
func (s *Service) Start(ctx context.Context) {
	s.spawn(func() { s.worker(ctx) })
	if s.Leave != nil && s.Cfg.LeaveRolloverInterval > 0 {
		s.spawn(func() { s.schedule(ctx, s.Cfg.LeaveRolloverInterval, JobLeaveRollover, s.rolloverLeave) })
	}
	if s.Payroll != nil && s.Cfg.PayrollAutorunInterval > 0 {
		s.spawn(func() { s.schedule(ctx, s.Cfg.PayrollAutorunInterval, JobPayrollAutorun, s.runPayroll) })
	}
}

func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) spawn(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// Enqueue hands a task to the worker. It reports false when the queue is full.
func (s *Service) Enqueue(jobType string, run Task) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run Task) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// Trigger runs a scheduled job immediately, outside its schedule.
func (s *Service) Trigger(ctx context.Context, jobType string) (any, error) {
	switch jobType {
	case JobLeaveRollover:
		if s.Leave == nil {
			return nil, ErrJobUnavailable
		}
		return s.RunNow(ctx, jobType, s.rolloverLeave)
	case JobPayrollAutorun:
		if s.Payroll == nil {
			return nil, ErrJobUnavailable
		}
		return s.RunNow(ctx, jobType, s.runPayroll)
	}
	return nil, ErrUnknownJob
}

func (s *Service) ListRuns(ctx context.Context, jobType string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.Runs.ListRuns(ctx, jobType, limit)
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID, err := s.Runs.StartRun(ctx, j.Type, s.now().UTC())
	if err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := RunCompleted
	if err != nil {
		status = RunFailed
	}
	if s.Metrics != nil {
		s.Metrics.RecordJob(err == nil)
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if updErr := s.Runs.FinishRun(ctx, runID, status, detailsJSON, s.now().UTC()); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) schedule(ctx context.Context, interval time.Duration, jobType string, run Task) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(jobType, run)
		}
	}
}

// rolloverLeave provisions balances for the current year, and in December for
// the next one as well.
func (s *Service) rolloverLeave(ctx context.Context) (any, error) {
	now := s.now()
	years := []int{now.Year()}
	if now.Month() == time.December {
		years = append(years, now.Year()+1)
	}
	var summaries []leave.RolloverSummary
	for _, year := range years {
		summary, err := s.Leave.RolloverYear(ctx, year)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *Service) runPayroll(ctx context.Context) (any, error) {
	result, err := s.Payroll.GenerateAll(ctx, payroll.PeriodOf(s.now()))
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"period":  result.Period,
		"created": len(result.Created),
		"skipped": len(result.Skipped),
	}, nil
}
