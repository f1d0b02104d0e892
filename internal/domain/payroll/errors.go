package payroll

import "errors"

var (
	ErrRecordNotFound   = errors.New("payroll record not found")
	ErrDuplicatePayroll = errors.New("payroll already processed for employee and period")
	ErrEmployeeInactive = errors.New("employee is not active")
	ErrInvalidState     = errors.New("payroll record is not in a payable state")
	ErrInvalidPeriod    = errors.New("period must be formatted YYYY-MM")
	ErrNegativeSalary   = errors.New("salary and overtime must not be negative")
	ErrInvalidRate      = errors.New("rate must be between 0 and 10000 basis points")
)
