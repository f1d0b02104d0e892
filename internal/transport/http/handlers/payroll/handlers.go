package payrollhandler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"staffhive/internal/domain/auth"
	"staffhive/internal/domain/payroll"
	"staffhive/internal/transport/http/api"
	"staffhive/internal/transport/http/middleware"
	"staffhive/internal/transport/http/shared"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	maxScheduleDates = 24
)

type Handler struct {
	Service *payroll.Service
	Perms   middleware.PermissionStore
	Audit   shared.AuditRecorder
	Now     func() time.Time
}

func NewHandler(service *payroll.Service, perms middleware.PermissionStore, recorder shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: recorder, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermPayrollRead, h.Perms)
	run := middleware.RequirePermission(auth.PermPayrollRun, h.Perms)
	finalize := middleware.RequirePermission(auth.PermPayrollFinalize, h.Perms)

	r.Route("/payroll", func(r chi.Router) {
		r.With(run).Post("/generate", h.handleGenerate)
		r.With(run).Post("/generate-all", h.handleGenerateAll)
		r.With(read).Get("/schedule", h.handleSchedule)
		r.Route("/records", func(r chi.Router) {
			r.With(read).Get("/", h.handleListRecords)
			r.Route("/{recordID}", func(r chi.Router) {
				r.With(read).Get("/", h.handleGetRecord)
				r.With(read).Get("/payslip.pdf", h.handlePayslip)
				r.With(finalize).Post("/pay", h.handleMarkPaid)
			})
		})
		r.Route("/periods/{period}", func(r chi.Router) {
			r.With(run).Get("/summary", h.handleSummary)
			r.With(run).Get("/register.xlsx", h.handleRegister)
		})
	})
}

type generateRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	Period     string `json:"period" validate:"required,period"`
	Overtime   int64  `json:"overtime" validate:"gte=0"`
}

type generateAllRequest struct {
	Period string `json:"period" validate:"required,period"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var payload generateRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	record, err := h.Service.Generate(r.Context(), payload.EmployeeID, payload.Period, payload.Overtime)
	if err != nil {
		shared.Fail(w, r, err, "payroll_generate_failed")
		return
	}
	shared.Audit(r, h.Audit, "payroll.generate", "payroll_record", record.ID, nil, record)
	api.Created(w, record, shared.RequestID(r))
}

func (h *Handler) handleGenerateAll(w http.ResponseWriter, r *http.Request) {
	var payload generateAllRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	result, err := h.Service.GenerateAll(r.Context(), payload.Period)
	if err != nil {
		shared.Fail(w, r, err, "payroll_generate_failed")
		return
	}
	shared.Audit(r, h.Audit, "payroll.generate_all", "payroll_period", payload.Period, nil, map[string]int{
		"created": len(result.Created),
		"skipped": len(result.Skipped),
	})
	api.Success(w, result, shared.RequestID(r))
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.User(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := payroll.Filter{
		Period:     strings.TrimSpace(q.Get("period")),
		EmployeeID: strings.TrimSpace(q.Get("employeeId")),
		Status:     strings.TrimSpace(q.Get("status")),
	}
	if filter.Period != "" {
		if _, err := payroll.ParsePeriod(filter.Period); err != nil {
			shared.Fail(w, r, err, "payroll_list_failed")
			return
		}
	}
	if shared.SelfOnly(user) {
		filter.EmployeeID = user.EmployeeID
	}
	records, err := h.Service.ListRecords(r.Context(), filter)
	if err != nil {
		shared.Fail(w, r, err, "payroll_list_failed")
		return
	}
	if records == nil {
		records = []payroll.Record{}
	}
	api.Success(w, records, shared.RequestID(r))
}

// loadVisible fetches a record and enforces that self-only callers can only
// see their own payslips.
func (h *Handler) loadVisible(w http.ResponseWriter, r *http.Request, fallback string) (payroll.Record, bool) {
	user, ok := shared.User(w, r)
	if !ok {
		return payroll.Record{}, false
	}
	record, err := h.Service.GetRecord(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		shared.Fail(w, r, err, fallback)
		return payroll.Record{}, false
	}
	if shared.SelfOnly(user) && record.EmployeeID != user.EmployeeID {
		api.Fail(w, http.StatusNotFound, "payroll_record_not_found", payroll.ErrRecordNotFound.Error(), shared.RequestID(r))
		return payroll.Record{}, false
	}
	return record, true
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	record, ok := h.loadVisible(w, r, "payroll_get_failed")
	if !ok {
		return
	}
	api.Success(w, record, shared.RequestID(r))
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	record, ok := h.loadVisible(w, r, "payslip_failed")
	if !ok {
		return
	}
	data, err := h.Service.PayslipPDF(r.Context(), record.ID)
	if err != nil {
		shared.Fail(w, r, err, "payslip_failed")
		return
	}
	api.Attachment(w, contentTypePDF, "payslip-"+record.Period+"-"+record.EmployeeID+".pdf", data)
}

func (h *Handler) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")
	before, err := h.Service.GetRecord(r.Context(), recordID)
	if err != nil {
		shared.Fail(w, r, err, "payroll_pay_failed")
		return
	}
	record, err := h.Service.MarkPaid(r.Context(), recordID)
	if err != nil {
		shared.Fail(w, r, err, "payroll_pay_failed")
		return
	}
	shared.Audit(r, h.Audit, "payroll.pay", "payroll_record", record.ID,
		map[string]string{"status": before.Status}, map[string]string{"status": record.Status})
	api.Success(w, record, shared.RequestID(r))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.PeriodSummary(r.Context(), chi.URLParam(r, "period"))
	if err != nil {
		shared.Fail(w, r, err, "payroll_summary_failed")
		return
	}
	api.Success(w, summary, shared.RequestID(r))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	period := chi.URLParam(r, "period")
	data, err := h.Service.ExportRegister(r.Context(), period)
	if err != nil {
		shared.Fail(w, r, err, "payroll_register_failed")
		return
	}
	api.Attachment(w, contentTypeXLSX, "payroll-register-"+period+".xlsx", data)
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from := h.Now()
	if raw := q.Get("from"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			shared.FailValidation(w, shared.RequestID(r), []shared.ValidationIssue{{Field: "from", Reason: "must be a valid date in YYYY-MM-DD format"}})
			return
		}
		from = parsed
	}
	count := 3
	if raw := q.Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxScheduleDates {
			shared.FailValidation(w, shared.RequestID(r), []shared.ValidationIssue{{Field: "count", Reason: "must be between 1 and " + strconv.Itoa(maxScheduleDates)}})
			return
		}
		count = n
	}
	dates, err := h.Service.UpcomingPayDates(r.Context(), from, count)
	if err != nil {
		shared.Fail(w, r, err, "payroll_schedule_failed")
		return
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(shared.DateLayout))
	}
	api.Success(w, map[string]any{"from": from.Format(shared.DateLayout), "payDates": out}, shared.RequestID(r))
}
