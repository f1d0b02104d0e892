package core

import "time"

const (
	EmployeeStatusActive   = "active"
	EmployeeStatusInactive = "inactive"

	DefaultCurrency = "NGN"
)

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

type Company struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	BusinessType       string    `json:"businessType"`
	RegistrationNumber string    `json:"registrationNumber"`
	TaxID              string    `json:"taxId"`
	Industry           string    `json:"industry"`
	Address            Address   `json:"address"`
	ContactEmail       string    `json:"contactEmail"`
	ContactPhone       string    `json:"contactPhone"`
	Website            string    `json:"website"`
	EmployeeCount      int       `json:"employeeCount"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Employee salary is held in minor currency units (kobo for NGN).
type Employee struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Position   string     `json:"position"`
	Department string     `json:"department"`
	CompanyID  string     `json:"companyId"`
	Status     string     `json:"status"`
	Salary     *int64     `json:"salary,omitempty"`
	Currency   string     `json:"currency"`
	JoinDate   *time.Time `json:"joinDate,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (e Employee) IsActive() bool {
	return e.Status == EmployeeStatusActive
}

// SalaryAmount returns the salary or zero when it is unset.
func (e Employee) SalaryAmount() int64 {
	if e.Salary == nil {
		return 0
	}
	return *e.Salary
}

type EmployeeFilter struct {
	Status     string
	Department string
	CompanyID  string
	Search     string
}
