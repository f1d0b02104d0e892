package attendance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"staffhive/internal/domain/core"
)

type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, employeeID string) (core.Employee, error)
	ListEmployees(ctx context.Context, filter core.EmployeeFilter) ([]core.Employee, error)
}

type Service struct {
	store     StoreAPI
	employees EmployeeDirectory
	loc       *time.Location
	now       func() time.Time
}

func NewService(store StoreAPI, employees EmployeeDirectory) *Service {
	return &Service{store: store, employees: employees, loc: time.Local, now: time.Now}
}

func (s *Service) Today() string {
	return s.now().In(s.loc).Format(DateLayout)
}

// CheckIn opens a shift for the employee. One shift per calendar day, and no
// new shift while an earlier one is still open.
func (s *Service) CheckIn(ctx context.Context, employeeID, location string) (Record, error) {
	emp, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return Record{}, err
	}
	if !emp.IsActive() {
		return Record{}, ErrEmployeeInactive
	}
	if _, err := s.store.FindOpenRecord(ctx, employeeID); err == nil {
		return Record{}, ErrAlreadyCheckedIn
	}

	now := s.now().In(s.loc)
	rec := Record{
		ID:         uuid.NewString(),
		EmployeeID: emp.ID,
		Name:       emp.Name,
		Department: emp.Department,
		Date:       now.Format(DateLayout),
		CheckIn:    now,
		Location:   strings.TrimSpace(location),
	}
	if err := s.store.CreateRecord(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// CheckOut closes the employee's open shift, even when it started on an
// earlier day.
func (s *Service) CheckOut(ctx context.Context, employeeID string) (Record, error) {
	open, err := s.store.FindOpenRecord(ctx, employeeID)
	if err != nil {
		return Record{}, err
	}
	now := s.now().In(s.loc)
	if !now.After(open.CheckIn) {
		return Record{}, ErrCheckOutBeforeCheckIn
	}
	return s.store.CloseRecord(ctx, open.ID, now)
}

// Import stores a historical shift after checking its ordering.
func (s *Service) Import(ctx context.Context, rec Record) (Record, error) {
	if rec.CheckOut != nil && !rec.CheckOut.After(rec.CheckIn) {
		return Record{}, ErrCheckOutBeforeCheckIn
	}
	emp, err := s.employees.GetEmployee(ctx, rec.EmployeeID)
	if err != nil {
		return Record{}, err
	}
	if rec.Date == "" {
		rec.Date = rec.CheckIn.In(s.loc).Format(DateLayout)
	}
	if _, err := ParseDate(rec.Date); err != nil {
		return Record{}, err
	}
	rec.ID = uuid.NewString()
	rec.Name = emp.Name
	rec.Department = emp.Department
	if err := s.store.CreateRecord(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) ListDay(ctx context.Context, date string) ([]Record, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	return s.store.ListByDate(ctx, date)
}

// DailyReport lists every active employee for the date with their shift
// status. Employees without a record appear as not started.
func (s *Service) DailyReport(ctx context.Context, date string) (DailyReport, error) {
	records, err := s.ListDay(ctx, date)
	if err != nil {
		return DailyReport{}, err
	}
	roster, err := s.employees.ListEmployees(ctx, core.EmployeeFilter{Status: core.EmployeeStatusActive})
	if err != nil {
		return DailyReport{}, fmt.Errorf("list roster: %w", err)
	}

	byEmployee := make(map[string]Record, len(records))
	for _, rec := range records {
		byEmployee[rec.EmployeeID] = rec
	}
	rosterIDs := make([]string, 0, len(roster))
	rows := make([]ReportRow, 0, len(roster))
	for _, emp := range roster {
		rosterIDs = append(rosterIDs, emp.ID)
		row := ReportRow{EmployeeID: emp.ID, Name: emp.Name, Department: emp.Department}
		if rec, ok := byEmployee[emp.ID]; ok {
			checkIn := rec.CheckIn
			row.CheckIn = &checkIn
			row.CheckOut = rec.CheckOut
			row.Location = rec.Location
		}
		row.Status = StatusOf(row.CheckIn, row.CheckOut)
		row.Duration = DurationLabel(row.CheckIn, row.CheckOut)
		rows = append(rows, row)
	}
	return DailyReport{Stats: Summarize(date, rosterIDs, records), Rows: rows}, nil
}

func (s *Service) DailyStats(ctx context.Context, date string) (DailyStats, error) {
	report, err := s.DailyReport(ctx, date)
	if err != nil {
		return DailyStats{}, err
	}
	return report.Stats, nil
}

func (s *Service) EmployeeHistory(ctx context.Context, employeeID, from, to string) ([]Record, error) {
	if _, err := ParseDate(from); err != nil {
		return nil, err
	}
	if _, err := ParseDate(to); err != nil {
		return nil, err
	}
	if _, err := s.employees.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.store.ListByEmployee(ctx, employeeID, from, to)
}

func (s *Service) HasEmployeeRecords(ctx context.Context, employeeID string) (bool, error) {
	records, err := s.store.ListByEmployee(ctx, employeeID, "0001-01-01", "9999-12-31")
	return len(records) > 0, err
}
