package postings

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"

	"staffhive/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const postingColumns = `
    id, title, company, location, type, salary, description, requirements, benefits, status, posted_at, updated_at`

func scanPosting(row pgx.Row, p *Posting) error {
	return row.Scan(&p.ID, &p.Title, &p.Company, &p.Location, &p.Type, &p.Salary, &p.Description,
		&p.Requirements, &p.Benefits, &p.Status, &p.PostedAt, &p.UpdatedAt)
}

func (s *Store) CreatePosting(ctx context.Context, p Posting) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO job_postings (id, title, company, location, type, salary, description, requirements, benefits, status, posted_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
  `, p.ID, p.Title, p.Company, p.Location, p.Type, p.Salary, p.Description, p.Requirements, p.Benefits, p.Status, p.PostedAt, p.UpdatedAt)
	return err
}

func (s *Store) GetPosting(ctx context.Context, postingID string) (Posting, error) {
	var p Posting
	err := scanPosting(s.DB.QueryRow(ctx, "SELECT"+postingColumns+" FROM job_postings WHERE id = $1", postingID), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return Posting{}, ErrPostingNotFound
	}
	return p, err
}

func (s *Store) ListPostings(ctx context.Context, status string) ([]Posting, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+postingColumns+`
    FROM job_postings
    WHERE ($1 = '' OR status = $1)
    ORDER BY posted_at DESC
  `, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Posting
	for rows.Next() {
		var p Posting
		if err := scanPosting(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePosting(ctx context.Context, p Posting) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE job_postings
    SET title = $2, company = $3, location = $4, type = $5, salary = $6, description = $7,
        requirements = $8, benefits = $9, status = $10, updated_at = $11
    WHERE id = $1
  `, p.ID, p.Title, p.Company, p.Location, p.Type, p.Salary, p.Description, p.Requirements, p.Benefits, p.Status, p.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostingNotFound
	}
	return nil
}

func (s *Store) DeletePosting(ctx context.Context, postingID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM job_postings WHERE id = $1", postingID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostingNotFound
	}
	return nil
}

type MemoryStore struct {
	mu       sync.RWMutex
	postings map[string]Posting
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{postings: map[string]Posting{}}
}

func clonePosting(p Posting) Posting {
	p.Requirements = slices.Clone(p.Requirements)
	p.Benefits = slices.Clone(p.Benefits)
	return p
}

func (m *MemoryStore) CreatePosting(ctx context.Context, p Posting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postings[p.ID] = clonePosting(p)
	return nil
}

func (m *MemoryStore) GetPosting(ctx context.Context, postingID string) (Posting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.postings[postingID]
	if !ok {
		return Posting{}, ErrPostingNotFound
	}
	return clonePosting(p), nil
}

func (m *MemoryStore) ListPostings(ctx context.Context, status string) ([]Posting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Posting, 0, len(m.postings))
	for _, p := range m.postings {
		if status == "" || p.Status == status {
			out = append(out, clonePosting(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PostedAt.After(out[j].PostedAt) })
	return out, nil
}

func (m *MemoryStore) UpdatePosting(ctx context.Context, p Posting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.postings[p.ID]; !ok {
		return ErrPostingNotFound
	}
	m.postings[p.ID] = clonePosting(p)
	return nil
}

func (m *MemoryStore) DeletePosting(ctx context.Context, postingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.postings[postingID]; !ok {
		return ErrPostingNotFound
	}
	delete(m.postings, postingID)
	return nil
}
