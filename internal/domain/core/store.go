package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"staffhive/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const companyColumns = `
    c.id, c.name, c.business_type, c.registration_number, c.tax_id, c.industry,
    c.street, c.city, c.state, c.country, c.postal_code,
    c.contact_email, c.contact_phone, c.website, c.created_at, c.updated_at`

func scanCompany(row pgx.Row, company *Company) error {
	return row.Scan(
		&company.ID, &company.Name, &company.BusinessType, &company.RegistrationNumber, &company.TaxID, &company.Industry,
		&company.Address.Street, &company.Address.City, &company.Address.State, &company.Address.Country, &company.Address.PostalCode,
		&company.ContactEmail, &company.ContactPhone, &company.Website, &company.CreatedAt, &company.UpdatedAt,
		&company.EmployeeCount,
	)
}

func (s *Store) CreateCompany(ctx context.Context, company Company) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO companies (id, name, business_type, registration_number, tax_id, industry,
                           street, city, state, country, postal_code,
                           contact_email, contact_phone, website, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
  `, company.ID, company.Name, company.BusinessType, company.RegistrationNumber, company.TaxID, company.Industry,
		company.Address.Street, company.Address.City, company.Address.State, company.Address.Country, company.Address.PostalCode,
		company.ContactEmail, company.ContactPhone, company.Website, company.CreatedAt, company.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateCompany
	}
	return err
}

func (s *Store) GetCompany(ctx context.Context, companyID string) (Company, error) {
	var company Company
	err := scanCompany(s.DB.QueryRow(ctx, `
    SELECT`+companyColumns+`,
           (SELECT COUNT(1) FROM employees e WHERE e.company_id = c.id)
    FROM companies c
    WHERE c.id = $1
  `, companyID), &company)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrCompanyNotFound
	}
	return company, err
}

func (s *Store) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+companyColumns+`,
           (SELECT COUNT(1) FROM employees e WHERE e.company_id = c.id)
    FROM companies c
    ORDER BY c.name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var company Company
		if err := scanCompany(rows, &company); err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, rows.Err()
}

func (s *Store) UpdateCompany(ctx context.Context, company Company) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE companies
    SET name = $2, business_type = $3, registration_number = $4, tax_id = $5, industry = $6,
        street = $7, city = $8, state = $9, country = $10, postal_code = $11,
        contact_email = $12, contact_phone = $13, website = $14, updated_at = $15
    WHERE id = $1
  `, company.ID, company.Name, company.BusinessType, company.RegistrationNumber, company.TaxID, company.Industry,
		company.Address.Street, company.Address.City, company.Address.State, company.Address.Country, company.Address.PostalCode,
		company.ContactEmail, company.ContactPhone, company.Website, company.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateCompany
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

func (s *Store) DeleteCompany(ctx context.Context, companyID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM companies WHERE id = $1", companyID)
	if db.IsForeignKeyViolation(err) {
		return ErrCompanyInUse
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

func (s *Store) CompanyHasEmployees(ctx context.Context, companyID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE company_id = $1", companyID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

const employeeColumns = `
    id, name, email, phone, position, department, COALESCE(company_id, ''),
    status, salary, currency, join_date, created_at, updated_at`

func scanEmployee(row pgx.Row, emp *Employee) error {
	var salary int64
	if err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.Phone, &emp.Position, &emp.Department, &emp.CompanyID,
		&emp.Status, &salary, &emp.Currency, &emp.JoinDate, &emp.CreatedAt, &emp.UpdatedAt,
	); err != nil {
		return err
	}
	emp.Salary = &salary
	return nil
}

func (s *Store) CreateEmployee(ctx context.Context, emp Employee) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employees (id, name, email, phone, position, department, company_id,
                           status, salary, currency, join_date, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
  `, emp.ID, emp.Name, emp.Email, emp.Phone, emp.Position, emp.Department, db.NullIfEmpty(emp.CompanyID),
		emp.Status, emp.SalaryAmount(), emp.Currency, emp.JoinDate, emp.CreatedAt, emp.UpdatedAt)
	switch {
	case db.IsUniqueViolation(err):
		return ErrDuplicateEmail
	case db.IsForeignKeyViolation(err):
		return ErrCompanyNotFound
	}
	return err
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	var emp Employee
	err := scanEmployee(s.DB.QueryRow(ctx, "SELECT"+employeeColumns+" FROM employees WHERE id = $1", employeeID), &emp)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, err
}

func (s *Store) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	query := "SELECT" + employeeColumns + " FROM employees WHERE 1=1"
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		query += fmt.Sprintf(" AND department = $%d", len(args))
	}
	if filter.CompanyID != "" {
		args = append(args, filter.CompanyID)
		query += fmt.Sprintf(" AND company_id = $%d", len(args))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		query += fmt.Sprintf(" AND (LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var emp Employee
		if err := scanEmployee(rows, &emp); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) UpdateEmployee(ctx context.Context, emp Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET name = $2, email = $3, phone = $4, position = $5, department = $6, company_id = $7,
        status = $8, salary = $9, currency = $10, join_date = $11, updated_at = $12
    WHERE id = $1
  `, emp.ID, emp.Name, emp.Email, emp.Phone, emp.Position, emp.Department, db.NullIfEmpty(emp.CompanyID),
		emp.Status, emp.SalaryAmount(), emp.Currency, emp.JoinDate, emp.UpdatedAt)
	switch {
	case db.IsUniqueViolation(err):
		return ErrDuplicateEmail
	case db.IsForeignKeyViolation(err):
		return ErrCompanyNotFound
	case err != nil:
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, employeeID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", employeeID)
	if db.IsForeignKeyViolation(err) {
		return ErrEmployeeInUse
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}
