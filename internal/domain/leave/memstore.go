package leave

import (
	"context"
	"sort"
	"sync"
	"time"
)

type balanceKey struct {
	employeeID string
	leaveType  string
	year       int
}

// MemoryStore serialises every balance change behind one mutex, which gives
// the same atomicity as the row locks taken by Store.
type MemoryStore struct {
	mu       sync.Mutex
	requests map[string]Request
	balances map[balanceKey]Balance
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		requests: map[string]Request{},
		balances: map[balanceKey]Balance{},
	}
}

func (m *MemoryStore) ensureLocked(employeeID, leaveType string, year int, allocated float64) (Balance, bool) {
	key := balanceKey{employeeID, leaveType, year}
	if b, ok := m.balances[key]; ok {
		return b, false
	}
	b := Balance{EmployeeID: employeeID, LeaveType: leaveType, Year: year, Allocated: allocated}.withAvailable()
	m.balances[key] = b
	return b, true
}

func (m *MemoryStore) SubmitRequest(ctx context.Context, req Request, allocated float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, _ := m.ensureLocked(req.EmployeeID, req.LeaveType, req.Year(), allocated)
	balance, err := reserve(balance, req.Days)
	if err != nil {
		return err
	}
	m.balances[balanceKey{req.EmployeeID, req.LeaveType, req.Year()}] = balance
	m.requests[req.ID] = req
	return nil
}

func (m *MemoryStore) DecideRequest(ctx context.Context, requestID, status, approver string, decidedAt time.Time) (Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[requestID]
	if !ok {
		return Request{}, ErrRequestNotFound
	}
	key := balanceKey{req.EmployeeID, req.LeaveType, req.Year()}
	balance, err := ApplyDecision(m.balances[key], req.Status, status, req.Days)
	if err != nil {
		return Request{}, err
	}
	req.Status = status
	req.Approver = approver
	req.DecidedAt = &decidedAt
	m.balances[key] = balance
	m.requests[requestID] = req
	return req, nil
}

func (m *MemoryStore) GetRequest(ctx context.Context, requestID string) (Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[requestID]
	if !ok {
		return Request{}, ErrRequestNotFound
	}
	return req, nil
}

func (m *MemoryStore) ListRequests(ctx context.Context, filter Filter) ([]Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, 0, len(m.requests))
	for _, req := range m.requests {
		if filter.EmployeeID != "" && req.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.LeaveType != "" && req.LeaveType != filter.LeaveType {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) EnsureBalance(ctx context.Context, employeeID, leaveType string, year int, allocated float64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, created := m.ensureLocked(employeeID, leaveType, year, allocated)
	return created, nil
}

func (m *MemoryStore) ListBalances(ctx context.Context, employeeID string, year int) ([]Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Balance
	for key, b := range m.balances {
		if key.employeeID == employeeID && key.year == year {
			out = append(out, b.withAvailable())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeaveType < out[j].LeaveType })
	return out, nil
}

func (m *MemoryStore) SetAllocation(ctx context.Context, employeeID, leaveType string, year int, allocated float64) (Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, _ := m.ensureLocked(employeeID, leaveType, year, allocated)
	balance, err := setAllocation(balance, allocated)
	if err != nil {
		return Balance{}, err
	}
	m.balances[balanceKey{employeeID, leaveType, year}] = balance
	return balance, nil
}
