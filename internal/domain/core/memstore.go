package core

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps companies and employees in process memory. Returned
// values are copies.
type MemoryStore struct {
	mu        sync.RWMutex
	companies map[string]Company
	employees map[string]Employee
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		companies: map[string]Company{},
		employees: map[string]Employee{},
	}
}

func (m *MemoryStore) CreateCompany(ctx context.Context, company Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.companies {
		if strings.EqualFold(existing.RegistrationNumber, company.RegistrationNumber) {
			return ErrDuplicateCompany
		}
	}
	m.companies[company.ID] = company
	return nil
}

func (m *MemoryStore) GetCompany(ctx context.Context, companyID string) (Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	company, ok := m.companies[companyID]
	if !ok {
		return Company{}, ErrCompanyNotFound
	}
	company.EmployeeCount = m.employeeCountLocked(companyID)
	return company, nil
}

func (m *MemoryStore) ListCompanies(ctx context.Context) ([]Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Company, 0, len(m.companies))
	for _, company := range m.companies {
		company.EmployeeCount = m.employeeCountLocked(company.ID)
		out = append(out, company)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) UpdateCompany(ctx context.Context, company Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[company.ID]; !ok {
		return ErrCompanyNotFound
	}
	for id, existing := range m.companies {
		if id != company.ID && strings.EqualFold(existing.RegistrationNumber, company.RegistrationNumber) {
			return ErrDuplicateCompany
		}
	}
	m.companies[company.ID] = company
	return nil
}

func (m *MemoryStore) DeleteCompany(ctx context.Context, companyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[companyID]; !ok {
		return ErrCompanyNotFound
	}
	if m.employeeCountLocked(companyID) > 0 {
		return ErrCompanyInUse
	}
	delete(m.companies, companyID)
	return nil
}

func (m *MemoryStore) CompanyHasEmployees(ctx context.Context, companyID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.employeeCountLocked(companyID) > 0, nil
}

func (m *MemoryStore) employeeCountLocked(companyID string) int {
	count := 0
	for _, emp := range m.employees {
		if emp.CompanyID == companyID {
			count++
		}
	}
	return count
}

func (m *MemoryStore) CreateEmployee(ctx context.Context, emp Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkEmployeeLocked(emp); err != nil {
		return err
	}
	m.employees[emp.ID] = copyEmployee(emp)
	return nil
}

func (m *MemoryStore) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	emp, ok := m.employees[employeeID]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	return copyEmployee(emp), nil
}

func (m *MemoryStore) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]Employee, 0, len(m.employees))
	for _, emp := range m.employees {
		if filter.Status != "" && emp.Status != filter.Status {
			continue
		}
		if filter.Department != "" && emp.Department != filter.Department {
			continue
		}
		if filter.CompanyID != "" && emp.CompanyID != filter.CompanyID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(emp.Name), search) && !strings.Contains(strings.ToLower(emp.Email), search) {
			continue
		}
		out = append(out, copyEmployee(emp))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) UpdateEmployee(ctx context.Context, emp Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[emp.ID]; !ok {
		return ErrEmployeeNotFound
	}
	if err := m.checkEmployeeLocked(emp); err != nil {
		return err
	}
	m.employees[emp.ID] = copyEmployee(emp)
	return nil
}

func (m *MemoryStore) DeleteEmployee(ctx context.Context, employeeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[employeeID]; !ok {
		return ErrEmployeeNotFound
	}
	delete(m.employees, employeeID)
	return nil
}

func (m *MemoryStore) checkEmployeeLocked(emp Employee) error {
	for id, existing := range m.employees {
		if id != emp.ID && strings.EqualFold(existing.Email, emp.Email) {
			return ErrDuplicateEmail
		}
	}
	if emp.CompanyID != "" {
		if _, ok := m.companies[emp.CompanyID]; !ok {
			return ErrCompanyNotFound
		}
	}
	return nil
}

func copyEmployee(emp Employee) Employee {
	if emp.Salary != nil {
		salary := *emp.Salary
		emp.Salary = &salary
	}
	if emp.JoinDate != nil {
		joined := *emp.JoinDate
		emp.JoinDate = &joined
	}
	return emp
}
