package leave

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"staffhive/internal/domain/core"
	"staffhive/internal/domain/settings"
)

type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, employeeID string) (core.Employee, error)
	ListEmployees(ctx context.Context, filter core.EmployeeFilter) ([]core.Employee, error)
}

type SettingsSource interface {
	Get(ctx context.Context) (settings.Settings, error)
}

// Notifier is told about every decided request. Implementations must not block.
type Notifier interface {
	LeaveDecided(ctx context.Context, req Request)
}

type Service struct {
	store     StoreAPI
	employees EmployeeDirectory
	settings  SettingsSource
	notifier  Notifier
	now       func() time.Time
}

func NewService(store StoreAPI, employees EmployeeDirectory, settings SettingsSource) *Service {
	return &Service{store: store, employees: employees, settings: settings, now: time.Now}
}

func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *Service) allocation(ctx context.Context, leaveType string) (float64, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	days, ok := cfg.Allocation(leaveType)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLeaveType, leaveType)
	}
	return days, nil
}

// Submit files a pending request and reserves its days. Requests that would
// overdraw the balance fail with ErrInsufficientBalance.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Request, error) {
	leaveType := strings.ToLower(strings.TrimSpace(in.LeaveType))
	allocated, err := s.allocation(ctx, leaveType)
	if err != nil {
		return Request{}, err
	}
	days, err := CalculateDays(in.StartDate, in.EndDate)
	if err != nil {
		return Request{}, err
	}
	emp, err := s.employees.GetEmployee(ctx, in.EmployeeID)
	if err != nil {
		return Request{}, err
	}
	if !emp.IsActive() {
		return Request{}, ErrEmployeeInactive
	}

	req := Request{
		ID:           uuid.NewString(),
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		LeaveType:    leaveType,
		StartDate:    dateOnly(in.StartDate),
		EndDate:      dateOnly(in.EndDate),
		Days:         days,
		Reason:       strings.TrimSpace(in.Reason),
		Status:       StatusPending,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.SubmitRequest(ctx, req, allocated); err != nil {
		return Request{}, err
	}
	return req, nil
}

func (s *Service) Approve(ctx context.Context, requestID, approver string) (Request, error) {
	return s.decide(ctx, requestID, StatusApproved, approver)
}

func (s *Service) Reject(ctx context.Context, requestID, approver string) (Request, error) {
	return s.decide(ctx, requestID, StatusRejected, approver)
}

func (s *Service) Cancel(ctx context.Context, requestID, actor string) (Request, error) {
	return s.decide(ctx, requestID, StatusCancelled, actor)
}

func (s *Service) decide(ctx context.Context, requestID, status, actor string) (Request, error) {
	req, err := s.store.DecideRequest(ctx, requestID, status, actor, s.now().UTC())
	if err != nil {
		return Request{}, err
	}
	if s.notifier != nil {
		s.notifier.LeaveDecided(ctx, req)
	}
	return req, nil
}

func (s *Service) GetRequest(ctx context.Context, requestID string) (Request, error) {
	return s.store.GetRequest(ctx, requestID)
}

func (s *Service) ListRequests(ctx context.Context, filter Filter) ([]Request, error) {
	return s.store.ListRequests(ctx, filter)
}

// HasEmployeeRecords counts requests only. Balances without requests are
// derived from settings and do not block deletion.
func (s *Service) HasEmployeeRecords(ctx context.Context, employeeID string) (bool, error) {
	requests, err := s.store.ListRequests(ctx, Filter{EmployeeID: employeeID})
	return len(requests) > 0, err
}

// Balances returns every configured leave type's balance for the year,
// provisioning missing ones from the current allocations.
func (s *Service) Balances(ctx context.Context, employeeID string, year int) ([]Balance, error) {
	if _, err := s.employees.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	if _, err := s.provision(ctx, employeeID, year); err != nil {
		return nil, err
	}
	return s.store.ListBalances(ctx, employeeID, year)
}

func (s *Service) provision(ctx context.Context, employeeID string, year int) (int, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	types := make([]string, 0, len(cfg.LeaveAllocations))
	for leaveType := range cfg.LeaveAllocations {
		types = append(types, leaveType)
	}
	sort.Strings(types)

	created := 0
	for _, leaveType := range types {
		ok, err := s.store.EnsureBalance(ctx, employeeID, leaveType, year, cfg.LeaveAllocations[leaveType])
		if err != nil {
			return created, fmt.Errorf("provision %s balance: %w", leaveType, err)
		}
		if ok {
			created++
		}
	}
	return created, nil
}

func (s *Service) AdjustAllocation(ctx context.Context, employeeID, leaveType string, year int, allocated float64) (Balance, error) {
	leaveType = strings.ToLower(strings.TrimSpace(leaveType))
	if _, err := s.allocation(ctx, leaveType); err != nil {
		return Balance{}, err
	}
	if allocated < 0 {
		return Balance{}, settings.ErrInvalidAllocation
	}
	if _, err := s.employees.GetEmployee(ctx, employeeID); err != nil {
		return Balance{}, err
	}
	return s.store.SetAllocation(ctx, employeeID, leaveType, year, allocated)
}

// RolloverYear provisions the year's balances for every active employee.
// Existing balances are left untouched, so the job can run repeatedly.
func (s *Service) RolloverYear(ctx context.Context, year int) (RolloverSummary, error) {
	summary := RolloverSummary{Year: year}
	employees, err := s.employees.ListEmployees(ctx, core.EmployeeFilter{Status: core.EmployeeStatusActive})
	if err != nil {
		return summary, err
	}
	for _, emp := range employees {
		created, err := s.provision(ctx, emp.ID, year)
		if err != nil {
			slog.Warn("leave rollover failed", "employeeId", emp.ID, "year", year, "err", err)
			continue
		}
		summary.EmployeesChecked++
		summary.BalancesCreated += created
	}
	return summary, nil
}
