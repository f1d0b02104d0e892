package payroll

import (
	"fmt"
	"time"
)

type Record struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	EmployeeName string     `json:"employeeName"`
	Period       string     `json:"period"`
	BaseSalary   int64      `json:"baseSalary"`
	Overtime     int64      `json:"overtime"`
	Bonus        int64      `json:"bonus"`
	Gross        int64      `json:"gross"`
	Tax          int64      `json:"tax"`
	Pension      int64      `json:"pension"`
	Deductions   int64      `json:"deductions"`
	TotalAmount  int64      `json:"totalAmount"`
	Currency     string     `json:"currency"`
	Status       string     `json:"status"`
	ProcessedAt  time.Time  `json:"processedDate"`
	PaidAt       *time.Time `json:"paidDate,omitempty"`
}

func (r *Record) apply(b Breakdown) {
	r.BaseSalary = b.Base
	r.Overtime = b.Overtime
	r.Bonus = b.Bonus
	r.Gross = b.Gross
	r.Tax = b.Tax
	r.Pension = b.Pension
	r.Deductions = b.Deductions
	r.TotalAmount = b.Net
}

type Filter struct {
	Period     string
	EmployeeID string
	Status     string
}

type PeriodSummary struct {
	Period          string `json:"period"`
	EmployeeCount   int    `json:"employeeCount"`
	PaidCount       int    `json:"paidCount"`
	TotalGross      int64  `json:"totalGross"`
	TotalDeductions int64  `json:"totalDeductions"`
	TotalNet        int64  `json:"totalNet"`
	Currency        string `json:"currency"`
}

type Skipped struct {
	EmployeeID string `json:"employeeId"`
	Reason     string `json:"reason"`
}

type GenerateResult struct {
	Period  string    `json:"period"`
	Created []Record  `json:"created"`
	Skipped []Skipped `json:"skipped"`
}

// ParsePeriod validates a YYYY-MM period and returns its first day.
func ParsePeriod(period string) (time.Time, error) {
	start, err := time.Parse(periodLayout, period)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	return start, nil
}

func PeriodOf(t time.Time) string {
	return t.Format(periodLayout)
}
