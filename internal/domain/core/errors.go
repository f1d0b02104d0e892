package core

import "errors"

var (
	ErrCompanyNotFound   = errors.New("company not found")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrDuplicateCompany  = errors.New("company registration number already exists")
	ErrDuplicateEmail    = errors.New("employee email already exists")
	ErrCompanyInUse      = errors.New("company still has employees")
	ErrEmployeeInUse     = errors.New("employee still has payroll, leave or attendance records")
	ErrNegativeSalary    = errors.New("salary must not be negative")
	ErrInvalidStatus     = errors.New("invalid employee status")
	ErrMissingIdentifier = errors.New("name and identifier are required")
)
