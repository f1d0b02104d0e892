package leave

import "time"

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

type Request struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	EmployeeName string     `json:"employeeName"`
	LeaveType    string     `json:"leaveType"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	Days         float64    `json:"days"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	Approver     string     `json:"approver,omitempty"`
	DecidedAt    *time.Time `json:"decidedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Year is the balance year a request draws from.
func (r Request) Year() int {
	return r.StartDate.Year()
}

type Balance struct {
	EmployeeID string  `json:"employeeId"`
	LeaveType  string  `json:"leaveType"`
	Year       int     `json:"year"`
	Allocated  float64 `json:"allocated"`
	Used       float64 `json:"used"`
	Pending    float64 `json:"pending"`
	Available  float64 `json:"available"`
}

func (b Balance) withAvailable() Balance {
	b.Available = b.Allocated - b.Used - b.Pending
	return b
}

type Filter struct {
	EmployeeID string
	Status     string
	LeaveType  string
}

type SubmitInput struct {
	EmployeeID string
	LeaveType  string
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
}

type RolloverSummary struct {
	Year             int `json:"year"`
	EmployeesChecked int `json:"employeesChecked"`
	BalancesCreated  int `json:"balancesCreated"`
}
