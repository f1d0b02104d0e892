package auth

const (
	PermEmployeesRead    = "core.employees.read"
	PermEmployeesWrite   = "core.employees.write"
	PermCompaniesRead    = "core.companies.read"
	PermCompaniesWrite   = "core.companies.write"
	PermRecruitmentRead  = "recruitment.read"
	PermRecruitmentWrite = "recruitment.write"
	PermLeaveRead        = "leave.read"
	PermLeaveWrite       = "leave.write"
	PermLeaveApprove     = "leave.approve"
	PermLeaveAdjust      = "leave.adjust"
	PermPayrollRead      = "payroll.read"
	PermPayrollRun       = "payroll.run"
	PermPayrollFinalize  = "payroll.finalize"
	PermAttendanceRead   = "attendance.read"
	PermAttendanceWrite  = "attendance.write"
	PermReportsRead      = "reports.read"
	PermSettingsRead     = "settings.read"
	PermSettingsWrite    = "settings.write"
	PermAuditRead        = "audit.read"
	PermUsersWrite       = "auth.users.write"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermCompaniesRead,
	PermCompaniesWrite,
	PermRecruitmentRead,
	PermRecruitmentWrite,
	PermLeaveRead,
	PermLeaveWrite,
	PermLeaveApprove,
	PermLeaveAdjust,
	PermPayrollRead,
	PermPayrollRun,
	PermPayrollFinalize,
	PermAttendanceRead,
	PermAttendanceWrite,
	PermReportsRead,
	PermSettingsRead,
	PermSettingsWrite,
	PermAuditRead,
	PermUsersWrite,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEmployeesRead,
		PermCompaniesRead,
		PermLeaveRead,
		PermLeaveWrite,
		PermPayrollRead,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermReportsRead,
		PermSettingsRead,
	},
	RoleManager: {
		PermEmployeesRead,
		PermCompaniesRead,
		PermRecruitmentRead,
		PermRecruitmentWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermPayrollRead,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermReportsRead,
		PermSettingsRead,
	},
	RoleHR: DefaultPermissions,
}

func RoleHasPermission(role, permission string) bool {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true
		}
	}
	return false
}
