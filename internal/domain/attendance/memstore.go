package attendance

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Record{}}
}

func (m *MemoryStore) CreateRecord(ctx context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.records {
		if existing.EmployeeID == rec.EmployeeID && existing.Date == rec.Date {
			return ErrAlreadyCheckedIn
		}
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *MemoryStore) FindOpenRecord(ctx context.Context, employeeID string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var open *Record
	for _, rec := range m.records {
		if rec.EmployeeID != employeeID || rec.CheckOut != nil {
			continue
		}
		if open == nil || rec.CheckIn.After(open.CheckIn) {
			r := rec
			open = &r
		}
	}
	if open == nil {
		return Record{}, ErrNotCheckedIn
	}
	return *open, nil
}

func (m *MemoryStore) CloseRecord(ctx context.Context, recordID string, checkOut time.Time) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recordID]
	if !ok {
		return Record{}, ErrNotCheckedIn
	}
	if rec.CheckOut != nil {
		return Record{}, ErrAlreadyCheckedOut
	}
	rec.CheckOut = &checkOut
	m.records[recordID] = rec
	return rec, nil
}

func (m *MemoryStore) ListByDate(ctx context.Context, date string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, rec := range m.records {
		if rec.Date == date {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (m *MemoryStore) ListByEmployee(ctx context.Context, employeeID, from, to string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, rec := range m.records {
		if rec.EmployeeID == employeeID && rec.Date >= from && rec.Date <= to {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
