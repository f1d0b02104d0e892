package core

import "staffhive/internal/domain/auth"

// FilterEmployeeFields strips compensation and contact details the caller may
// not see. HR sees everything; everyone may see their own record in full.
func FilterEmployeeFields(emp *Employee, user auth.UserContext) {
	if user.IsHR() {
		return
	}
	if user.EmployeeID != "" && user.EmployeeID == emp.ID {
		return
	}

	emp.Salary = nil
	if user.RoleName != auth.RoleManager {
		emp.Phone = ""
	}
}
