package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"staffhive/internal/domain/core"
	"staffhive/internal/domain/settings"
	cryptoutil "staffhive/internal/platform/crypto"
)

type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, employeeID string) (core.Employee, error)
	ListEmployees(ctx context.Context, filter core.EmployeeFilter) ([]core.Employee, error)
}

type SettingsSource interface {
	Get(ctx context.Context) (settings.Settings, error)
}

type Service struct {
	store      StoreAPI
	employees  EmployeeDirectory
	settings   SettingsSource
	crypto     *cryptoutil.Service
	payslipDir string
	now        func() time.Time
}

func NewService(store StoreAPI, employees EmployeeDirectory, settings SettingsSource, crypto *cryptoutil.Service, payslipDir string) *Service {
	return &Service{
		store:      store,
		employees:  employees,
		settings:   settings,
		crypto:     crypto,
		payslipDir: payslipDir,
		now:        time.Now,
	}
}

func (s *Service) rates(ctx context.Context) (Rates, string, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return Rates{}, "", err
	}
	return Rates{BonusBP: cfg.Payroll.BonusBP, TaxBP: cfg.Payroll.TaxBP, PensionBP: cfg.Payroll.PensionBP}, cfg.Currency, nil
}

// Generate processes one employee's payroll for the period. A second run for
// the same employee and period fails with ErrDuplicatePayroll.
func (s *Service) Generate(ctx context.Context, employeeID, period string, overtime int64) (Record, error) {
	if _, err := ParsePeriod(period); err != nil {
		return Record{}, err
	}
	rates, _, err := s.rates(ctx)
	if err != nil {
		return Record{}, err
	}
	emp, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return Record{}, err
	}
	return s.generateFor(ctx, emp, period, overtime, rates)
}

func (s *Service) generateFor(ctx context.Context, emp core.Employee, period string, overtime int64, rates Rates) (Record, error) {
	if !emp.IsActive() {
		return Record{}, ErrEmployeeInactive
	}
	breakdown, err := Calculate(emp.SalaryAmount(), overtime, rates)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:           uuid.NewString(),
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Period:       period,
		Currency:     emp.Currency,
		Status:       StatusProcessed,
		ProcessedAt:  s.now().UTC(),
	}
	if rec.Currency == "" {
		rec.Currency = core.DefaultCurrency
	}
	rec.apply(breakdown)
	if err := s.store.CreateRecord(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// GenerateAll processes every active employee for the period. Employees that
// already have a record are reported as skipped rather than failing the run.
func (s *Service) GenerateAll(ctx context.Context, period string) (GenerateResult, error) {
	if _, err := ParsePeriod(period); err != nil {
		return GenerateResult{}, err
	}
	rates, _, err := s.rates(ctx)
	if err != nil {
		return GenerateResult{}, err
	}
	employees, err := s.employees.ListEmployees(ctx, core.EmployeeFilter{Status: core.EmployeeStatusActive})
	if err != nil {
		return GenerateResult{}, fmt.Errorf("list employees: %w", err)
	}

	result := GenerateResult{Period: period, Created: []Record{}, Skipped: []Skipped{}}
	for _, emp := range employees {
		rec, err := s.generateFor(ctx, emp, period, 0, rates)
		switch {
		case err == nil:
			result.Created = append(result.Created, rec)
		case errors.Is(err, ErrDuplicatePayroll), errors.Is(err, ErrNegativeSalary):
			result.Skipped = append(result.Skipped, Skipped{EmployeeID: emp.ID, Reason: err.Error()})
		default:
			return result, fmt.Errorf("generate payroll for %s: %w", emp.ID, err)
		}
	}
	return result, nil
}

func (s *Service) GetRecord(ctx context.Context, recordID string) (Record, error) {
	return s.store.GetRecord(ctx, recordID)
}

func (s *Service) ListRecords(ctx context.Context, filter Filter) ([]Record, error) {
	return s.store.ListRecords(ctx, filter)
}

func (s *Service) HasEmployeeRecords(ctx context.Context, employeeID string) (bool, error) {
	records, err := s.store.ListRecords(ctx, Filter{EmployeeID: employeeID})
	return len(records) > 0, err
}

func (s *Service) MarkPaid(ctx context.Context, recordID string) (Record, error) {
	return s.store.MarkPaid(ctx, recordID, s.now().UTC())
}

func (s *Service) PeriodSummary(ctx context.Context, period string) (PeriodSummary, error) {
	if _, err := ParsePeriod(period); err != nil {
		return PeriodSummary{}, err
	}
	_, currency, err := s.rates(ctx)
	if err != nil {
		return PeriodSummary{}, err
	}
	records, err := s.store.ListRecords(ctx, Filter{Period: period})
	if err != nil {
		return PeriodSummary{}, err
	}
	return Summarize(period, currency, records), nil
}

func Summarize(period, currency string, records []Record) PeriodSummary {
	out := PeriodSummary{Period: period, Currency: currency}
	for _, rec := range records {
		out.EmployeeCount++
		if rec.Status == StatusPaid {
			out.PaidCount++
		}
		out.TotalGross += rec.Gross
		out.TotalDeductions += rec.Deductions
		out.TotalNet += rec.TotalAmount
	}
	return out
}
