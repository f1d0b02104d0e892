package recruitment

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"staffhive/internal/platform/db"
)

type StoreAPI interface {
	CreateApplicant(ctx context.Context, applicant Applicant) error
	GetApplicant(ctx context.Context, applicantID string) (Applicant, error)
	ListApplicants(ctx context.Context, filter Filter) ([]Applicant, error)
	// UpdateStage moves the applicant only if it is still in stage from.
	UpdateStage(ctx context.Context, applicantID, from, to string, at time.Time) error
	// UpdateDetails rewrites contact and document fields; stage is untouched.
	UpdateDetails(ctx context.Context, applicant Applicant) error
	DeleteApplicant(ctx context.Context, applicantID string) error
	CountByStage(ctx context.Context) (map[string]int, error)
	CountByPosting(ctx context.Context) (map[string]int, error)
}

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const applicantColumns = `
    id, name, email, phone, position, COALESCE(posting_id, ''), stage, applied_date,
    resume, cover_letter, notes, updated_at`

func scanApplicant(row pgx.Row, a *Applicant) error {
	return row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Position, &a.PostingID, &a.Stage, &a.AppliedDate,
		&a.Resume, &a.CoverLetter, &a.Notes, &a.UpdatedAt)
}

func (s *Store) CreateApplicant(ctx context.Context, a Applicant) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO applicants (id, name, email, phone, position, posting_id, stage, applied_date,
                            resume, cover_letter, notes, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
  `, a.ID, a.Name, a.Email, a.Phone, a.Position, db.NullIfEmpty(a.PostingID), a.Stage, a.AppliedDate,
		a.Resume, a.CoverLetter, a.Notes, a.UpdatedAt)
	return err
}

func (s *Store) GetApplicant(ctx context.Context, applicantID string) (Applicant, error) {
	var a Applicant
	err := scanApplicant(s.DB.QueryRow(ctx, "SELECT"+applicantColumns+" FROM applicants WHERE id = $1", applicantID), &a)
	if errors.Is(err, pgx.ErrNoRows) {
		return Applicant{}, ErrApplicantNotFound
	}
	return a, err
}

func (s *Store) ListApplicants(ctx context.Context, filter Filter) ([]Applicant, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+applicantColumns+`
    FROM applicants
    WHERE ($1 = '' OR stage = $1)
      AND ($2 = '' OR posting_id = $2)
    ORDER BY applied_date DESC, name
  `, filter.Stage, filter.PostingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Applicant
	for rows.Next() {
		var a Applicant
		if err := scanApplicant(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) UpdateStage(ctx context.Context, applicantID, from, to string, at time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE applicants SET stage = $3, updated_at = $4
    WHERE id = $1 AND stage = $2
  `, applicantID, from, to, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.GetApplicant(ctx, applicantID); err != nil {
			return err
		}
		return ErrInvalidTransition
	}
	return nil
}

func (s *Store) UpdateDetails(ctx context.Context, a Applicant) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE applicants
    SET name = $2, email = $3, phone = $4, position = $5, posting_id = $6,
        resume = $7, cover_letter = $8, notes = $9, updated_at = $10
    WHERE id = $1
  `, a.ID, a.Name, a.Email, a.Phone, a.Position, db.NullIfEmpty(a.PostingID),
		a.Resume, a.CoverLetter, a.Notes, a.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrApplicantNotFound
	}
	return nil
}

func (s *Store) DeleteApplicant(ctx context.Context, applicantID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM applicants WHERE id = $1", applicantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrApplicantNotFound
	}
	return nil
}

func (s *Store) CountByStage(ctx context.Context) (map[string]int, error) {
	return s.count(ctx, "SELECT stage, COUNT(1) FROM applicants GROUP BY stage")
}

func (s *Store) CountByPosting(ctx context.Context) (map[string]int, error) {
	return s.count(ctx, "SELECT posting_id, COUNT(1) FROM applicants WHERE posting_id IS NOT NULL GROUP BY posting_id")
}

func (s *Store) count(ctx context.Context, query string) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

type MemoryStore struct {
	mu         sync.RWMutex
	applicants map[string]Applicant
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{applicants: map[string]Applicant{}}
}

func (m *MemoryStore) CreateApplicant(ctx context.Context, a Applicant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applicants[a.ID] = a
	return nil
}

func (m *MemoryStore) GetApplicant(ctx context.Context, applicantID string) (Applicant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.applicants[applicantID]
	if !ok {
		return Applicant{}, ErrApplicantNotFound
	}
	return a, nil
}

func (m *MemoryStore) ListApplicants(ctx context.Context, filter Filter) ([]Applicant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Applicant, 0, len(m.applicants))
	for _, a := range m.applicants {
		if filter.matches(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppliedDate.Equal(out[j].AppliedDate) {
			return out[i].AppliedDate.After(out[j].AppliedDate)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *MemoryStore) UpdateStage(ctx context.Context, applicantID, from, to string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applicants[applicantID]
	if !ok {
		return ErrApplicantNotFound
	}
	if a.Stage != from {
		return ErrInvalidTransition
	}
	a.Stage = to
	a.UpdatedAt = at
	m.applicants[applicantID] = a
	return nil
}

func (m *MemoryStore) UpdateDetails(ctx context.Context, a Applicant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.applicants[a.ID]
	if !ok {
		return ErrApplicantNotFound
	}
	a.Stage = existing.Stage
	a.AppliedDate = existing.AppliedDate
	m.applicants[a.ID] = a
	return nil
}

func (m *MemoryStore) DeleteApplicant(ctx context.Context, applicantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.applicants[applicantID]; !ok {
		return ErrApplicantNotFound
	}
	delete(m.applicants, applicantID)
	return nil
}

func (m *MemoryStore) CountByStage(ctx context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := map[string]int{}
	for _, a := range m.applicants {
		counts[a.Stage]++
	}
	return counts, nil
}

func (m *MemoryStore) CountByPosting(ctx context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := map[string]int{}
	for _, a := range m.applicants {
		if a.PostingID != "" {
			counts[a.PostingID]++
		}
	}
	return counts, nil
}
