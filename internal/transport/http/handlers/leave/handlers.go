package leavehandler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"staffhive/internal/domain/auth"
	"staffhive/internal/domain/core"
	"staffhive/internal/domain/leave"
	"staffhive/internal/transport/http/api"
	"staffhive/internal/transport/http/middleware"
	"staffhive/internal/transport/http/shared"
)

type EmployeeLookup interface {
	GetEmployee(ctx context.Context, employeeID string) (core.Employee, error)
}

type Handler struct {
	Service   *leave.Service
	Employees EmployeeLookup
	Perms     middleware.PermissionStore
	Audit     shared.AuditRecorder
	Now       func() time.Time
}

func NewHandler(service *leave.Service, employees EmployeeLookup, perms middleware.PermissionStore, recorder shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms, Audit: recorder, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermLeaveRead, h.Perms)
	write := middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)
	approve := middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)

	r.Route("/leave", func(r chi.Router) {
		r.Route("/requests", func(r chi.Router) {
			r.With(read).Get("/", h.handleListRequests)
			r.With(write).Post("/", h.handleSubmit)
			r.Route("/{requestID}", func(r chi.Router) {
				r.With(read).Get("/", h.handleGetRequest)
				r.With(approve).Post("/approve", h.handleApprove)
				r.With(approve).Post("/reject", h.handleReject)
				r.With(write).Post("/cancel", h.handleCancel)
			})
		})
		r.With(read).Get("/balances", h.handleBalances)
		r.With(middleware.RequirePermission(auth.PermLeaveAdjust, h.Perms)).Post("/balances/adjust", h.handleAdjust)
	})
}

type submitRequest struct {
	EmployeeID string `json:"employeeId"`
	LeaveType  string `json:"leaveType" validate:"required"`
	StartDate  string `json:"startDate" validate:"required,isodate"`
	EndDate    string `json:"endDate" validate:"required,isodate"`
	Reason     string `json:"reason" validate:"max=2000"`
}

type adjustRequest struct {
	EmployeeID string  `json:"employeeId" validate:"required"`
	LeaveType  string  `json:"leaveType" validate:"required"`
	Year       int     `json:"year" validate:"required,gte=1970,lte=9999"`
	Allocated  float64 `json:"allocated" validate:"gte=0"`
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.User(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := leave.Filter{
		EmployeeID: strings.TrimSpace(q.Get("employeeId")),
		Status:     strings.TrimSpace(q.Get("status")),
		LeaveType:  strings.TrimSpace(q.Get("leaveType")),
	}
	if shared.SelfOnly(user) {
		filter.EmployeeID = user.EmployeeID
	}
	requests, err := h.Service.ListRequests(r.Context(), filter)
	if err != nil {
		shared.Fail(w, r, err, "leave_list_failed")
		return
	}
	if requests == nil {
		requests = []leave.Request{}
	}
	api.Success(w, requests, shared.RequestID(r))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.User(w, r)
	if !ok {
		return
	}
	var payload submitRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	employeeID := payload.EmployeeID
	if employeeID == "" {
		employeeID = user.EmployeeID
	}
	if employeeID == "" {
		shared.FailValidation(w, shared.RequestID(r), []shared.ValidationIssue{{Field: "employeeId", Reason: "is required"}})
		return
	}
	if !shared.CanAccessEmployee(w, r, user, employeeID) {
		return
	}
	start, _ := shared.ParseDate(payload.StartDate)
	end, _ := shared.ParseDate(payload.EndDate)

	req, err := h.Service.Submit(r.Context(), leave.SubmitInput{
		EmployeeID: employeeID,
		LeaveType:  payload.LeaveType,
		StartDate:  start,
		EndDate:    end,
		Reason:     payload.Reason,
	})
	if err != nil {
		shared.Fail(w, r, err, "leave_submit_failed")
		return
	}
	shared.Audit(r, h.Audit, "leave.submit", "leave_request", req.ID, nil, req)
	api.Created(w, req, shared.RequestID(r))
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request, user auth.UserContext, fallback string) (leave.Request, bool) {
	req, err := h.Service.GetRequest(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		shared.Fail(w, r, err, fallback)
		return leave.Request{}, false
	}
	if shared.SelfOnly(user) && req.EmployeeID != user.EmployeeID {
		api.Fail(w, http.StatusNotFound, "leave_request_not_found", leave.ErrRequestNotFound.Error(), shared.RequestID(r))
		return leave.Request{}, false
	}
	return req, true
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.User(w, r)
	if !ok {
		return
	}
	req, ok := h.load(w, r, user, "leave_get_failed")
	if !ok {
		return
	}
	api.Success(w, req, shared.RequestID(r))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "approve")
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "reject")
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "cancel")
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, action string) {
	user, ok := shared.User(w, r)
	if !ok {
		return
	}
	fallback := "leave_" + action + "_failed"
	before, ok := h.load(w, r, user, fallback)
	if !ok {
		return
	}
	if action != "cancel" && !user.IsHR() && before.EmployeeID == user.EmployeeID {
		api.Fail(w, http.StatusForbidden, "self_approval", "leave requests cannot be decided by the requester", shared.RequestID(r))
		return
	}
	if action == "cancel" && !user.IsHR() && before.EmployeeID != user.EmployeeID {
		api.Fail(w, http.StatusForbidden, "not_requester", "only the requester or HR can cancel a leave request", shared.RequestID(r))
		return
	}

	actor := h.actorName(r.Context(), user)
	var (
		req leave.Request
		err error
	)
	switch action {
	case "approve":
		req, err = h.Service.Approve(r.Context(), before.ID, actor)
	case "reject":
		req, err = h.Service.Reject(r.Context(), before.ID, actor)
	default:
		req, err = h.Service.Cancel(r.Context(), before.ID, actor)
	}
	if err != nil {
		shared.Fail(w, r, err, fallback)
		return
	}
	shared.Audit(r, h.Audit, "leave."+action, "leave_request", req.ID,
		map[string]string{"status": before.Status}, map[string]string{"status": req.Status, "approver": req.Approver})
	api.Success(w, req, shared.RequestID(r))
}

// actorName prefers the caller's employee name so decision e-mails read well.
func (h *Handler) actorName(ctx context.Context, user auth.UserContext) string {
	if user.EmployeeID != "" && h.Employees != nil {
		if emp, err := h.Employees.GetEmployee(ctx, user.EmployeeID); err == nil {
			return emp.Name
		}
	}
	return user.RoleName
}

func (h *Handler) handleBalances(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.User(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	employeeID := strings.TrimSpace(q.Get("employeeId"))
	if employeeID == "" {
		employeeID = user.EmployeeID
	}
	if employeeID == "" {
		shared.FailValidation(w, shared.RequestID(r), []shared.ValidationIssue{{Field: "employeeId", Reason: "is required"}})
		return
	}
	if !shared.CanAccessEmployee(w, r, user, employeeID) {
		return
	}
	year, ok := shared.Year(q.Get("year"), h.Now())
	if !ok {
		shared.FailValidation(w, shared.RequestID(r), []shared.ValidationIssue{{Field: "year", Reason: "must be a four digit year"}})
		return
	}
	balances, err := h.Service.Balances(r.Context(), employeeID, year)
	if err != nil {
		shared.Fail(w, r, err, "leave_balances_failed")
		return
	}
	api.Success(w, balances, shared.RequestID(r))
}

func (h *Handler) handleAdjust(w http.ResponseWriter, r *http.Request) {
	var payload adjustRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	balance, err := h.Service.AdjustAllocation(r.Context(), payload.EmployeeID, payload.LeaveType, payload.Year, payload.Allocated)
	if err != nil {
		shared.Fail(w, r, err, "leave_adjust_failed")
		return
	}
	shared.Audit(r, h.Audit, "leave.balance.adjust", "leave_balance", payload.EmployeeID, nil, balance)
	api.Success(w, balance, shared.RequestID(r))
}
