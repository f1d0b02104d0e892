package reportshandler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"staffhive/internal/domain/attendance"
	"staffhive/internal/domain/auth"
	"staffhive/internal/domain/leave"
	"staffhive/internal/domain/payroll"
	"staffhive/internal/domain/reports"
	"staffhive/internal/transport/http/api"
	"staffhive/internal/transport/http/middleware"
	"staffhive/internal/transport/http/shared"
)

type LeaveBalances interface {
	Balances(ctx context.Context, employeeID string, year int) ([]leave.Balance, error)
}

type PayrollRecords interface {
	ListRecords(ctx context.Context, filter payroll.Filter) ([]payroll.Record, error)
}

type AttendanceHistory interface {
	Today() string
	EmployeeHistory(ctx context.Context, employeeID, from, to string) ([]attendance.Record, error)
}

type Handler struct {
	Service    *reports.Service
	Leave      LeaveBalances
	Payroll    PayrollRecords
	Attendance AttendanceHistory
	Perms      middleware.PermissionStore
	Now        func() time.Time
}

func NewHandler(service *reports.Service, lv LeaveBalances, pay PayrollRecords, att AttendanceHistory, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Leave: lv, Payroll: pay, Attendance: att, Perms: perms, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/", h.handleOverview)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/me", h.handleMyDashboard)
	})
}

// handleOverview serves the organisation dashboard. Payroll totals are only
// shown to callers who can run payroll.
func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.User(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	now := h.Now()
	date := q.Get("date")
	if date == "" {
		date = h.Attendance.Today()
	}
	if _, err := attendance.ParseDate(date); err != nil {
		shared.Fail(w, r, err, "dashboard_failed")
		return
	}
	period := q.Get("period")
	if period == "" {
		period = payroll.PeriodOf(now)
	}
	if _, err := payroll.ParsePeriod(period); err != nil {
		shared.Fail(w, r, err, "dashboard_failed")
		return
	}

	overview, err := h.Service.Overview(r.Context(), date, period)
	if err != nil {
		shared.Fail(w, r, err, "dashboard_failed")
		return
	}
	if !auth.RoleHasPermission(user.RoleName, auth.PermPayrollRun) {
		overview.Payroll = payroll.PeriodSummary{Period: overview.Payroll.Period, Currency: overview.Payroll.Currency}
	}
	api.Success(w, overview, shared.RequestID(r))
}

type myDashboard struct {
	EmployeeID    string              `json:"employeeId"`
	Year          int                 `json:"year"`
	LeaveBalances []leave.Balance     `json:"leaveBalances"`
	Payslips      int                 `json:"payslips"`
	LatestPayslip *payroll.Record     `json:"latestPayslip,omitempty"`
	Today         *attendance.Record  `json:"today,omitempty"`
	RecentShifts  []attendance.Record `json:"recentShifts"`
}

// handleMyDashboard is the caller's personal view: leave balances, payslips
// and this week's shifts.
func (h *Handler) handleMyDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.User(w, r)
	if !ok {
		return
	}
	if user.EmployeeID == "" {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "no employee record is linked to this account", shared.RequestID(r))
		return
	}

	out := myDashboard{EmployeeID: user.EmployeeID, Year: h.Now().Year(), RecentShifts: []attendance.Record{}}
	balances, err := h.Leave.Balances(r.Context(), user.EmployeeID, out.Year)
	if err != nil {
		shared.Fail(w, r, err, "dashboard_failed")
		return
	}
	out.LeaveBalances = balances

	records, err := h.Payroll.ListRecords(r.Context(), payroll.Filter{EmployeeID: user.EmployeeID})
	if err != nil {
		slog.Warn("dashboard payslip lookup failed", "employeeId", user.EmployeeID, "err", err)
	}
	out.Payslips = len(records)
	for i := range records {
		if out.LatestPayslip == nil || records[i].Period > out.LatestPayslip.Period {
			out.LatestPayslip = &records[i]
		}
	}

	today := h.Attendance.Today()
	start, _ := attendance.ParseDate(today)
	shifts, err := h.Attendance.EmployeeHistory(r.Context(), user.EmployeeID, start.AddDate(0, 0, -6).Format(attendance.DateLayout), today)
	if err != nil {
		slog.Warn("dashboard attendance lookup failed", "employeeId", user.EmployeeID, "err", err)
	}
	for i := range shifts {
		if shifts[i].Date == today {
			out.Today = &shifts[i]
		}
	}
	if shifts != nil {
		out.RecentShifts = shifts
	}
	api.Success(w, out, shared.RequestID(r))
}
