package attendance

import (
	"errors"
	"time"
)

var (
	ErrAlreadyCheckedIn      = errors.New("employee already checked in for the day")
	ErrNotCheckedIn          = errors.New("employee has no open check-in")
	ErrAlreadyCheckedOut     = errors.New("employee already checked out")
	ErrCheckOutBeforeCheckIn = errors.New("check-out must be after check-in")
	ErrNegativeDuration      = errors.New("check-out time is before check-in time")
	ErrEmployeeInactive      = errors.New("employee is not active")
	ErrInvalidDate           = errors.New("date must be formatted YYYY-MM-DD")
)

// Record is one shift. Date is the check-in day; a shift that runs past
// midnight stays on that day.
type Record struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	Name       string     `json:"name"`
	Department string     `json:"department"`
	Date       string     `json:"date"`
	CheckIn    time.Time  `json:"checkInTime"`
	CheckOut   *time.Time `json:"checkOutTime,omitempty"`
	Location   string     `json:"location"`
}

func (r Record) Status() string {
	return StatusOf(&r.CheckIn, r.CheckOut)
}

type ReportRow struct {
	EmployeeID string     `json:"employeeId"`
	Name       string     `json:"name"`
	Department string     `json:"department"`
	Status     string     `json:"status"`
	CheckIn    *time.Time `json:"checkInTime,omitempty"`
	CheckOut   *time.Time `json:"checkOutTime,omitempty"`
	Duration   string     `json:"duration"`
	Location   string     `json:"location,omitempty"`
}

type DailyReport struct {
	Stats DailyStats  `json:"stats"`
	Rows  []ReportRow `json:"rows"`
}

func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
