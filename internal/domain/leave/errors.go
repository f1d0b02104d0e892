package leave

import "errors"

var (
	ErrRequestNotFound       = errors.New("leave request not found")
	ErrInvalidDateRange      = errors.New("end date before start date")
	ErrInsufficientBalance   = errors.New("insufficient leave balance")
	ErrInvalidState          = errors.New("leave request is no longer pending")
	ErrUnknownLeaveType      = errors.New("unknown leave type")
	ErrEmployeeInactive      = errors.New("employee is not active")
	ErrAllocationBelowBooked = errors.New("allocation is below days already used or pending")
)
