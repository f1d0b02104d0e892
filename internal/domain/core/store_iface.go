package core

import "context"

type StoreAPI interface {
	CreateCompany(ctx context.Context, company Company) error
	GetCompany(ctx context.Context, companyID string) (Company, error)
	ListCompanies(ctx context.Context) ([]Company, error)
	UpdateCompany(ctx context.Context, company Company) error
	DeleteCompany(ctx context.Context, companyID string) error
	CompanyHasEmployees(ctx context.Context, companyID string) (bool, error)

	CreateEmployee(ctx context.Context, emp Employee) error
	GetEmployee(ctx context.Context, employeeID string) (Employee, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	UpdateEmployee(ctx context.Context, emp Employee) error
	DeleteEmployee(ctx context.Context, employeeID string) error
}
