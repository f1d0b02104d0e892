package attendancehandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"staffhive/internal/domain/attendance"
	"staffhive/internal/domain/auth"
	"staffhive/internal/transport/http/api"
	"staffhive/internal/transport/http/middleware"
	"staffhive/internal/transport/http/shared"
)

// historyDays is the default look-back for an employee's attendance history.
const historyDays = 30

type Handler struct {
	Service *attendance.Service
	Perms   middleware.PermissionStore
	Audit   shared.AuditRecorder
}

func NewHandler(service *attendance.Service, perms middleware.PermissionStore, recorder shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: recorder}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)
	write := middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)

	r.Route("/attendance", func(r chi.Router) {
		r.With(write).Post("/check-in", h.handleCheckIn)
		r.With(write).Post("/check-out", h.handleCheckOut)
		r.With(read).Get("/employees/{employeeID}", h.handleHistory)
		r.With(read).Get("/{date}", h.handleDay)
		r.With(read).Get("/{date}/report", h.handleReport)
	})
}

type checkInRequest struct {
	EmployeeID string `json:"employeeId"`
	Location   string `json:"location" validate:"max=200"`
}

type checkOutRequest struct {
	EmployeeID string `json:"employeeId"`
}

// targetEmployee defaults to the caller and stops self-only callers from
// clocking anyone else.
func targetEmployee(w http.ResponseWriter, r *http.Request, requested string) (string, bool) {
	user, ok := shared.User(w, r)
	if !ok {
		return "", false
	}
	employeeID := strings.TrimSpace(requested)
	if employeeID == "" {
		employeeID = user.EmployeeID
	}
	if employeeID == "" {
		shared.FailValidation(w, shared.RequestID(r), []shared.ValidationIssue{{Field: "employeeId", Reason: "is required"}})
		return "", false
	}
	if !shared.CanAccessEmployee(w, r, user, employeeID) {
		return "", false
	}
	return employeeID, true
}

func (h *Handler) dateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := chi.URLParam(r, "date")
	if date == "today" {
		return h.Service.Today(), true
	}
	if _, err := attendance.ParseDate(date); err != nil {
		shared.Fail(w, r, err, "attendance_failed")
		return "", false
	}
	return date, true
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var payload checkInRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	employeeID, ok := targetEmployee(w, r, payload.EmployeeID)
	if !ok {
		return
	}
	record, err := h.Service.CheckIn(r.Context(), employeeID, strings.TrimSpace(payload.Location))
	if err != nil {
		shared.Fail(w, r, err, "attendance_check_in_failed")
		return
	}
	shared.Audit(r, h.Audit, "attendance.check_in", "attendance_record", record.ID, nil, record)
	api.Created(w, record, shared.RequestID(r))
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	var payload checkOutRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	employeeID, ok := targetEmployee(w, r, payload.EmployeeID)
	if !ok {
		return
	}
	record, err := h.Service.CheckOut(r.Context(), employeeID)
	if err != nil {
		shared.Fail(w, r, err, "attendance_check_out_failed")
		return
	}
	shared.Audit(r, h.Audit, "attendance.check_out", "attendance_record", record.ID, nil, record)
	api.Success(w, record, shared.RequestID(r))
}

func (h *Handler) handleDay(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.User(w, r)
	if !ok {
		return
	}
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}
	records, err := h.Service.ListDay(r.Context(), date)
	if err != nil {
		shared.Fail(w, r, err, "attendance_list_failed")
		return
	}
	out := make([]attendance.Record, 0, len(records))
	for _, rec := range records {
		if shared.SelfOnly(user) && rec.EmployeeID != user.EmployeeID {
			continue
		}
		out = append(out, rec)
	}
	api.Success(w, out, shared.RequestID(r))
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.User(w, r)
	if !ok {
		return
	}
	if shared.SelfOnly(user) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", shared.RequestID(r))
		return
	}
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}
	report, err := h.Service.DailyReport(r.Context(), date)
	if err != nil {
		shared.Fail(w, r, err, "attendance_report_failed")
		return
	}
	api.Success(w, report, shared.RequestID(r))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.User(w, r)
	if !ok {
		return
	}
	employeeID := chi.URLParam(r, "employeeID")
	if !shared.CanAccessEmployee(w, r, user, employeeID) {
		return
	}
	q := r.URL.Query()
	to := q.Get("to")
	if to == "" {
		to = h.Service.Today()
	}
	from := q.Get("from")
	if from == "" {
		if end, err := attendance.ParseDate(to); err == nil {
			from = end.AddDate(0, 0, -historyDays).Format(attendance.DateLayout)
		}
	}
	records, err := h.Service.EmployeeHistory(r.Context(), employeeID, from, to)
	if err != nil {
		shared.Fail(w, r, err, "attendance_history_failed")
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	api.Success(w, records, shared.RequestID(r))
}
