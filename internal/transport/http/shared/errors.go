package shared

import (
	"errors"
	"net/http"

	"staffhive/internal/domain/attendance"
	"staffhive/internal/domain/auth"
	"staffhive/internal/domain/core"
	"staffhive/internal/domain/leave"
	"staffhive/internal/domain/payroll"
	"staffhive/internal/domain/postings"
	"staffhive/internal/domain/recruitment"
	"staffhive/internal/domain/settings"
	"staffhive/internal/platform/jobs"
	"staffhive/internal/platform/localstore"
	"staffhive/internal/platform/logger"
	"staffhive/internal/transport/http/api"
	"staffhive/internal/transport/http/middleware"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{core.ErrCompanyNotFound, http.StatusNotFound, "company_not_found"},
	{core.ErrEmployeeNotFound, http.StatusNotFound, "employee_not_found"},
	{core.ErrDuplicateCompany, http.StatusConflict, "duplicate_company"},
	{core.ErrDuplicateEmail, http.StatusConflict, "duplicate_email"},
	{core.ErrCompanyInUse, http.StatusConflict, "company_in_use"},
	{core.ErrEmployeeInUse, http.StatusConflict, "employee_in_use"},
	{core.ErrNegativeSalary, http.StatusUnprocessableEntity, "negative_salary"},
	{core.ErrInvalidStatus, http.StatusUnprocessableEntity, "invalid_status"},
	{core.ErrMissingIdentifier, http.StatusUnprocessableEntity, "missing_identifier"},

	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{auth.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{auth.ErrDuplicateUser, http.StatusConflict, "duplicate_user"},
	{auth.ErrUnknownRole, http.StatusUnprocessableEntity, "unknown_role"},
	{auth.ErrWeakPassword, http.StatusUnprocessableEntity, "weak_password"},
	{auth.ErrMFARequired, http.StatusUnauthorized, "mfa_required"},
	{auth.ErrMFAInvalid, http.StatusUnauthorized, "mfa_invalid"},
	{auth.ErrMFAUnavailable, http.StatusBadRequest, "mfa_unavailable"},
	{auth.ErrMFANotSetUp, http.StatusBadRequest, "mfa_missing"},

	{settings.ErrInvalidRate, http.StatusUnprocessableEntity, "invalid_rate"},
	{settings.ErrInvalidAllocation, http.StatusUnprocessableEntity, "invalid_allocation"},
	{settings.ErrInvalidCurrency, http.StatusUnprocessableEntity, "invalid_currency"},
	{settings.ErrInvalidPayRule, http.StatusUnprocessableEntity, "invalid_pay_rule"},

	{payroll.ErrRecordNotFound, http.StatusNotFound, "payroll_record_not_found"},
	{payroll.ErrDuplicatePayroll, http.StatusConflict, "duplicate_payroll"},
	{payroll.ErrEmployeeInactive, http.StatusConflict, "employee_inactive"},
	{payroll.ErrInvalidState, http.StatusConflict, "invalid_state"},
	{payroll.ErrInvalidPeriod, http.StatusBadRequest, "invalid_period"},
	{payroll.ErrNegativeSalary, http.StatusUnprocessableEntity, "negative_salary"},
	{payroll.ErrInvalidRate, http.StatusUnprocessableEntity, "invalid_rate"},

	{leave.ErrRequestNotFound, http.StatusNotFound, "leave_request_not_found"},
	{leave.ErrInvalidDateRange, http.StatusBadRequest, "invalid_date_range"},
	{leave.ErrInsufficientBalance, http.StatusConflict, "insufficient_balance"},
	{leave.ErrInvalidState, http.StatusConflict, "invalid_state"},
	{leave.ErrUnknownLeaveType, http.StatusBadRequest, "unknown_leave_type"},
	{leave.ErrEmployeeInactive, http.StatusConflict, "employee_inactive"},
	{leave.ErrAllocationBelowBooked, http.StatusConflict, "allocation_below_booked"},

	{attendance.ErrAlreadyCheckedIn, http.StatusConflict, "already_checked_in"},
	{attendance.ErrNotCheckedIn, http.StatusConflict, "not_checked_in"},
	{attendance.ErrAlreadyCheckedOut, http.StatusConflict, "already_checked_out"},
	{attendance.ErrCheckOutBeforeCheckIn, http.StatusUnprocessableEntity, "check_out_before_check_in"},
	{attendance.ErrNegativeDuration, http.StatusUnprocessableEntity, "negative_duration"},
	{attendance.ErrEmployeeInactive, http.StatusConflict, "employee_inactive"},
	{attendance.ErrInvalidDate, http.StatusBadRequest, "invalid_date"},

	{recruitment.ErrApplicantNotFound, http.StatusNotFound, "applicant_not_found"},
	{recruitment.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{recruitment.ErrInvalidStage, http.StatusBadRequest, "invalid_stage"},
	{recruitment.ErrMissingIdentifier, http.StatusUnprocessableEntity, "missing_identifier"},

	{postings.ErrPostingNotFound, http.StatusNotFound, "job_posting_not_found"},
	{postings.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
	{postings.ErrInvalidType, http.StatusUnprocessableEntity, "invalid_job_type"},
	{postings.ErrMissingTitle, http.StatusUnprocessableEntity, "missing_title"},

	{localstore.ErrMalformedExport, http.StatusBadRequest, "malformed_export"},
	{jobs.ErrUnknownJob, http.StatusNotFound, "unknown_job"},
	{jobs.ErrJobUnavailable, http.StatusConflict, "job_unavailable"},
}

// Fail maps a service error onto the response envelope. Unknown errors become
// 500 with the given fallback code and are logged.
func Fail(w http.ResponseWriter, r *http.Request, err error, fallbackCode string) {
	reqID := middleware.GetRequestID(r.Context())
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			api.Fail(w, m.status, m.code, err.Error(), reqID)
			return
		}
	}
	logger.From(r.Context()).Error("request failed", "code", fallbackCode, "err", err)
	api.Fail(w, http.StatusInternalServerError, fallbackCode, "internal server error", reqID)
}
