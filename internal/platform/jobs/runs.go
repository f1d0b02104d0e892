package jobs

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"staffhive/internal/platform/db"
)

const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

type Run struct {
	ID          string          `json:"id"`
	Type        string          `json:"jobType"`
	Status      string          `json:"status"`
	Details     json.RawMessage `json:"details,omitempty"`
	StartedAt   time.Time       `json:"startedAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

type RunStore interface {
	StartRun(ctx context.Context, jobType string, at time.Time) (string, error)
	FinishRun(ctx context.Context, runID, status string, details []byte, at time.Time) error
	ListRuns(ctx context.Context, jobType string, limit int) ([]Run, error)
}

type PGRunStore struct {
	DB db.Querier
}

func NewPGRunStore(q db.Querier) *PGRunStore {
	return &PGRunStore{DB: q}
}

func (s *PGRunStore) StartRun(ctx context.Context, jobType string, at time.Time) (string, error) {
	runID := uuid.NewString()
	_, err := s.DB.Exec(ctx, `
    INSERT INTO job_runs (id, job_type, status, started_at)
    VALUES ($1,$2,$3,$4)
  `, runID, jobType, RunRunning, at)
	if err != nil {
		return "", err
	}
	return runID, nil
}

func (s *PGRunStore) FinishRun(ctx context.Context, runID, status string, details []byte, at time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, completed_at = $3
    WHERE id = $4
  `, status, string(details), at, runID)
	return err
}

func (s *PGRunStore) ListRuns(ctx context.Context, jobType string, limit int) ([]Run, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, job_type, status, details_json, started_at, completed_at
    FROM job_runs
    WHERE ($1 = '' OR job_type = $1)
    ORDER BY started_at DESC
    LIMIT $2
  `, jobType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		var details []byte
		if err := rows.Scan(&run.ID, &run.Type, &run.Status, &details, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, err
		}
		run.Details = details
		out = append(out, run)
	}
	return out, rows.Err()
}

type MemoryRunStore struct {
	mu   sync.Mutex
	runs map[string]Run
}

func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{runs: map[string]Run{}}
}

func (m *MemoryRunStore) StartRun(ctx context.Context, jobType string, at time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	runID := uuid.NewString()
	m.runs[runID] = Run{ID: runID, Type: jobType, Status: RunRunning, StartedAt: at}
	return runID, nil
}

func (m *MemoryRunStore) FinishRun(ctx context.Context, runID, status string, details []byte, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[runID]
	if !ok {
		return nil
	}
	run.Status = status
	run.Details = details
	run.CompletedAt = &at
	m.runs[runID] = run
	return nil
}

func (m *MemoryRunStore) ListRuns(ctx context.Context, jobType string, limit int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Run, 0, len(m.runs))
	for _, run := range m.runs {
		if jobType == "" || run.Type == jobType {
			out = append(out, run)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
