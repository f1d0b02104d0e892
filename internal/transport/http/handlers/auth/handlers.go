package authhandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffhive/internal/domain/auth"
	"staffhive/internal/domain/core"
	"staffhive/internal/transport/http/api"
	"staffhive/internal/transport/http/middleware"
	"staffhive/internal/transport/http/shared"
)

type EmployeeLookup interface {
	GetEmployee(ctx context.Context, employeeID string) (core.Employee, error)
}

type Handler struct {
	Service   *auth.Service
	Employees EmployeeLookup
	Audit     shared.AuditRecorder
}

func NewHandler(service *auth.Service, employees EmployeeLookup, recorder shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Employees: employees, Audit: recorder}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	MFACode  string `json:"mfaCode"`
}

type mfaCodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type createUserRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"required,oneof=HR Manager Employee"`
	EmployeeID string `json:"employeeId"`
}

// RegisterRoutes mounts the authenticated account routes. Login is mounted
// separately by the router since it runs before authentication.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.HandleMe)
	r.Post("/auth/mfa/setup", h.HandleMFASetup)
	r.Post("/auth/mfa/enable", h.HandleMFAEnable)
	r.Post("/auth/mfa/disable", h.HandleMFADisable)
	r.With(middleware.RequirePermission(auth.PermUsersWrite, h.Service)).Post("/users", h.HandleCreateUser)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	result, err := h.Service.Login(r.Context(), payload.Email, payload.Password, payload.MFACode)
	if err != nil {
		shared.Fail(w, r, err, "login_failed")
		return
	}
	shared.Audit(r.WithContext(middleware.WithUser(r.Context(), result.User.Context())), h.Audit, "auth.login", "user", result.User.ID, nil, nil)
	api.Success(w, result, shared.RequestID(r))
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.User(w, r)
	if !ok {
		return
	}
	account, err := h.Service.GetUser(r.Context(), user.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", shared.RequestID(r))
			return
		}
		shared.Fail(w, r, err, "me_failed")
		return
	}

	var employee *core.Employee
	if account.EmployeeID != "" && h.Employees != nil {
		emp, err := h.Employees.GetEmployee(r.Context(), account.EmployeeID)
		if err == nil {
			employee = &emp
		}
	}

	api.Success(w, map[string]any{
		"user":        account,
		"employee":    employee,
		"permissions": auth.RolePermissions[account.Role],
	}, shared.RequestID(r))
}

func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var payload createUserRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	if payload.EmployeeID != "" && h.Employees != nil {
		if _, err := h.Employees.GetEmployee(r.Context(), payload.EmployeeID); err != nil {
			shared.Fail(w, r, err, "user_create_failed")
			return
		}
	}
	created, err := h.Service.CreateUser(r.Context(), payload.Email, payload.Password, payload.Role, payload.EmployeeID)
	if err != nil {
		shared.Fail(w, r, err, "user_create_failed")
		return
	}
	shared.Audit(r, h.Audit, "auth.user.create", "user", created.ID, nil, created)
	api.Created(w, created, shared.RequestID(r))
}

func (h *Handler) HandleMFASetup(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.User(w, r)
	if !ok {
		return
	}
	setup, err := h.Service.SetupMFA(r.Context(), user.UserID)
	if err != nil {
		shared.Fail(w, r, err, "mfa_setup_failed")
		return
	}
	shared.Audit(r, h.Audit, "auth.mfa.setup", "user", user.UserID, nil, nil)
	api.Success(w, setup, shared.RequestID(r))
}

func (h *Handler) HandleMFAEnable(w http.ResponseWriter, r *http.Request) {
	h.toggleMFA(w, r, true)
}

func (h *Handler) HandleMFADisable(w http.ResponseWriter, r *http.Request) {
	h.toggleMFA(w, r, false)
}

func (h *Handler) toggleMFA(w http.ResponseWriter, r *http.Request, enable bool) {
	user, ok := shared.User(w, r)
	if !ok {
		return
	}
	var payload mfaCodeRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	toggle, action := h.Service.DisableMFA, "auth.mfa.disable"
	if enable {
		toggle, action = h.Service.EnableMFA, "auth.mfa.enable"
	}
	account, err := toggle(r.Context(), user.UserID, payload.Code)
	if err != nil {
		shared.Fail(w, r, err, "mfa_update_failed")
		return
	}
	shared.Audit(r, h.Audit, action, "user", user.UserID, nil, map[string]bool{"mfaEnabled": account.MFAEnabled})
	api.Success(w, account, shared.RequestID(r))
}
