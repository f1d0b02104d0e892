package localstore

import "time"

type attendanceEntry struct {
	EmployeeID   string     `json:"employeeId" validate:"required"`
	Name         string     `json:"name"`
	Department   string     `json:"department"`
	CheckInTime  *time.Time `json:"checkInTime" validate:"required"`
	CheckOutTime *time.Time `json:"checkOutTime"`
	Location     string     `json:"location"`
}

type leaveEntry struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employeeId" validate:"required"`
	EmployeeName string `json:"employeeName"`
	LeaveType    string `json:"leaveType" validate:"required"`
	StartDate    string `json:"startDate" validate:"required"`
	EndDate      string `json:"endDate" validate:"required"`
	Reason       string `json:"reason"`
	Status       string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	Approver     string `json:"approver"`
}

type jobEntry struct {
	ID           string   `json:"id"`
	Title        string   `json:"title" validate:"required"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	Type         string   `json:"type"`
	Salary       string   `json:"salary"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Benefits     []string `json:"benefits"`
	Status       string   `json:"status" validate:"omitempty,oneof=active inactive"`
}
