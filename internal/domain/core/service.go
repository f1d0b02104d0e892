package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EmployeeRecords reports whether another domain still holds rows that
// reference the employee.
type EmployeeRecords interface {
	HasEmployeeRecords(ctx context.Context, employeeID string) (bool, error)
}

type Service struct {
	store      StoreAPI
	dependents []EmployeeRecords
	now        func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) RegisterCompany(ctx context.Context, company Company) (Company, error) {
	if err := normalizeCompany(&company); err != nil {
		return Company{}, err
	}
	now := s.now().UTC()
	company.ID = uuid.NewString()
	company.CreatedAt = now
	company.UpdatedAt = now
	company.EmployeeCount = 0
	if err := s.store.CreateCompany(ctx, company); err != nil {
		return Company{}, err
	}
	return company, nil
}

func (s *Service) GetCompany(ctx context.Context, companyID string) (Company, error) {
	return s.store.GetCompany(ctx, companyID)
}

func (s *Service) ListCompanies(ctx context.Context) ([]Company, error) {
	return s.store.ListCompanies(ctx)
}

func (s *Service) UpdateCompany(ctx context.Context, companyID string, company Company) (Company, error) {
	existing, err := s.store.GetCompany(ctx, companyID)
	if err != nil {
		return Company{}, err
	}
	if err := normalizeCompany(&company); err != nil {
		return Company{}, err
	}
	company.ID = existing.ID
	company.CreatedAt = existing.CreatedAt
	company.EmployeeCount = existing.EmployeeCount
	company.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateCompany(ctx, company); err != nil {
		return Company{}, err
	}
	return company, nil
}

func (s *Service) DeleteCompany(ctx context.Context, companyID string) error {
	if _, err := s.store.GetCompany(ctx, companyID); err != nil {
		return err
	}
	inUse, err := s.store.CompanyHasEmployees(ctx, companyID)
	if err != nil {
		return fmt.Errorf("check company employees: %w", err)
	}
	if inUse {
		return ErrCompanyInUse
	}
	return s.store.DeleteCompany(ctx, companyID)
}

func (s *Service) CreateEmployee(ctx context.Context, emp Employee) (Employee, error) {
	if err := s.prepareEmployee(ctx, &emp); err != nil {
		return Employee{}, err
	}
	now := s.now().UTC()
	emp.ID = uuid.NewString()
	emp.CreatedAt = now
	emp.UpdatedAt = now
	if err := s.store.CreateEmployee(ctx, emp); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Service) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	return s.store.GetEmployee(ctx, employeeID)
}

func (s *Service) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	return s.store.ListEmployees(ctx, filter)
}

func (s *Service) UpdateEmployee(ctx context.Context, employeeID string, emp Employee) (Employee, error) {
	existing, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return Employee{}, err
	}
	if emp.Salary == nil {
		emp.Salary = existing.Salary
	}
	if emp.Status == "" {
		emp.Status = existing.Status
	}
	if err := s.prepareEmployee(ctx, &emp); err != nil {
		return Employee{}, err
	}
	emp.ID = existing.ID
	emp.CreatedAt = existing.CreatedAt
	emp.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateEmployee(ctx, emp); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Service) SetEmployeeStatus(ctx context.Context, employeeID, status string) (Employee, error) {
	if !validStatus(status) {
		return Employee{}, ErrInvalidStatus
	}
	emp, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return Employee{}, err
	}
	if emp.Status == status {
		return emp, nil
	}
	emp.Status = status
	emp.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateEmployee(ctx, emp); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

// AddEmployeeRecords registers a domain whose records block employee deletion.
func (s *Service) AddEmployeeRecords(dep EmployeeRecords) {
	s.dependents = append(s.dependents, dep)
}

// DeleteEmployee removes an employee with no dependent records. Employees
// with history are deactivated instead.
func (s *Service) DeleteEmployee(ctx context.Context, employeeID string) error {
	if _, err := s.store.GetEmployee(ctx, employeeID); err != nil {
		return err
	}
	for _, dep := range s.dependents {
		inUse, err := dep.HasEmployeeRecords(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("check employee records: %w", err)
		}
		if inUse {
			return ErrEmployeeInUse
		}
	}
	return s.store.DeleteEmployee(ctx, employeeID)
}

func (s *Service) prepareEmployee(ctx context.Context, emp *Employee) error {
	emp.Name = strings.TrimSpace(emp.Name)
	emp.Email = strings.ToLower(strings.TrimSpace(emp.Email))
	emp.CompanyID = strings.TrimSpace(emp.CompanyID)
	if emp.Name == "" || emp.Email == "" {
		return ErrMissingIdentifier
	}
	if emp.Salary != nil && *emp.Salary < 0 {
		return ErrNegativeSalary
	}
	if emp.Status == "" {
		emp.Status = EmployeeStatusActive
	}
	if !validStatus(emp.Status) {
		return ErrInvalidStatus
	}
	if emp.Currency == "" {
		emp.Currency = DefaultCurrency
	}
	emp.Currency = strings.ToUpper(emp.Currency)
	if emp.CompanyID != "" {
		if _, err := s.store.GetCompany(ctx, emp.CompanyID); err != nil {
			return err
		}
	}
	return nil
}

func normalizeCompany(company *Company) error {
	company.Name = strings.TrimSpace(company.Name)
	company.RegistrationNumber = strings.TrimSpace(company.RegistrationNumber)
	if company.Name == "" || company.RegistrationNumber == "" {
		return ErrMissingIdentifier
	}
	return nil
}

func validStatus(status string) bool {
	return status == EmployeeStatusActive || status == EmployeeStatusInactive
}
