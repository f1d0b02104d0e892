package payroll

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Record{}}
}

func (m *MemoryStore) CreateRecord(ctx context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.records {
		if existing.EmployeeID == rec.EmployeeID && existing.Period == rec.Period {
			return ErrDuplicatePayroll
		}
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *MemoryStore) GetRecord(ctx context.Context, recordID string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[recordID]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return rec, nil
}

func (m *MemoryStore) ListRecords(ctx context.Context, filter Filter) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		if filter.Period != "" && rec.Period != filter.Period {
			continue
		}
		if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Period != out[j].Period {
			return out[i].Period > out[j].Period
		}
		return out[i].EmployeeName < out[j].EmployeeName
	})
	return out, nil
}

func (m *MemoryStore) MarkPaid(ctx context.Context, recordID string, paidAt time.Time) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recordID]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	if rec.Status != StatusProcessed {
		return Record{}, ErrInvalidState
	}
	rec.Status = StatusPaid
	rec.PaidAt = &paidAt
	m.records[recordID] = rec
	return rec, nil
}
