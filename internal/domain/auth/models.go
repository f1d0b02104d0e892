package auth

import "time"

const (
	RoleHR       = "HR"
	RoleManager  = "Manager"
	RoleEmployee = "Employee"
)

// UserContext is the authenticated caller carried on the request context.
type UserContext struct {
	UserID     string
	EmployeeID string
	RoleName   string
}

func (u UserContext) IsHR() bool {
	return u.RoleName == RoleHR
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	EmployeeID   string    `json:"employeeId,omitempty"`
	MFAEnabled   bool      `json:"mfaEnabled"`
	MFASecret    []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u User) Context() UserContext {
	return UserContext{UserID: u.ID, EmployeeID: u.EmployeeID, RoleName: u.Role}
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
