package corehandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"staffhive/internal/domain/auth"
	"staffhive/internal/domain/core"
	"staffhive/internal/transport/http/api"
	"staffhive/internal/transport/http/middleware"
	"staffhive/internal/transport/http/shared"
)

type Handler struct {
	Service *core.Service
	Perms   middleware.PermissionStore
	Audit   shared.AuditRecorder
}

func NewHandler(service *core.Service, perms middleware.PermissionStore, recorder shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: recorder}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/companies", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermCompaniesRead, h.Perms)).Get("/", h.handleListCompanies)
		r.With(middleware.RequirePermission(auth.PermCompaniesWrite, h.Perms)).Post("/", h.handleCreateCompany)
		r.Route("/{companyID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermCompaniesRead, h.Perms)).Get("/", h.handleGetCompany)
			r.With(middleware.RequirePermission(auth.PermCompaniesWrite, h.Perms)).Put("/", h.handleUpdateCompany)
			r.With(middleware.RequirePermission(auth.PermCompaniesWrite, h.Perms)).Delete("/", h.handleDeleteCompany)
		})
	})
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleListEmployees)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreateEmployee)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleGetEmployee)
			r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Put("/", h.handleUpdateEmployee)
			r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Put("/status", h.handleSetEmployeeStatus)
			r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Delete("/", h.handleDeleteEmployee)
		})
	})
}

type addressPayload struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

type companyRequest struct {
	Name               string         `json:"name" validate:"required,max=200"`
	BusinessType       string         `json:"businessType"`
	RegistrationNumber string         `json:"registrationNumber" validate:"required,max=100"`
	TaxID              string         `json:"taxId"`
	Industry           string         `json:"industry"`
	Address            addressPayload `json:"address"`
	ContactEmail       string         `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone       string         `json:"contactPhone"`
	Website            string         `json:"website" validate:"omitempty,url"`
}

func (p companyRequest) company() core.Company {
	return core.Company{
		Name:               p.Name,
		BusinessType:       p.BusinessType,
		RegistrationNumber: p.RegistrationNumber,
		TaxID:              p.TaxID,
		Industry:           p.Industry,
		Address:            core.Address(p.Address),
		ContactEmail:       p.ContactEmail,
		ContactPhone:       p.ContactPhone,
		Website:            p.Website,
	}
}

type employeeRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	Position   string `json:"position"`
	Department string `json:"department"`
	CompanyID  string `json:"companyId"`
	Status     string `json:"status" validate:"omitempty,oneof=active inactive"`
	Salary     *int64 `json:"salary" validate:"omitempty,gte=0"`
	Currency   string `json:"currency" validate:"omitempty,len=3"`
	JoinDate   string `json:"joinDate" validate:"omitempty,isodate"`
}

func (p employeeRequest) employee() core.Employee {
	emp := core.Employee{
		Name:       p.Name,
		Email:      p.Email,
		Phone:      p.Phone,
		Position:   p.Position,
		Department: p.Department,
		CompanyID:  p.CompanyID,
		Status:     p.Status,
		Salary:     p.Salary,
		Currency:   p.Currency,
	}
	if p.JoinDate != "" {
		if joined, err := shared.ParseDate(p.JoinDate); err == nil {
			emp.JoinDate = &joined
		}
	}
	return emp
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

func (h *Handler) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Service.ListCompanies(r.Context())
	if err != nil {
		shared.Fail(w, r, err, "company_list_failed")
		return
	}
	if companies == nil {
		companies = []core.Company{}
	}
	api.Success(w, companies, shared.RequestID(r))
}

func (h *Handler) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var payload companyRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	company, err := h.Service.RegisterCompany(r.Context(), payload.company())
	if err != nil {
		shared.Fail(w, r, err, "company_create_failed")
		return
	}
	shared.Audit(r, h.Audit, "core.company.create", "company", company.ID, nil, company)
	api.Created(w, company, shared.RequestID(r))
}

func (h *Handler) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.Service.GetCompany(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		shared.Fail(w, r, err, "company_get_failed")
		return
	}
	api.Success(w, company, shared.RequestID(r))
}

func (h *Handler) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	var payload companyRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	before, err := h.Service.GetCompany(r.Context(), companyID)
	if err != nil {
		shared.Fail(w, r, err, "company_update_failed")
		return
	}
	company, err := h.Service.UpdateCompany(r.Context(), companyID, payload.company())
	if err != nil {
		shared.Fail(w, r, err, "company_update_failed")
		return
	}
	shared.Audit(r, h.Audit, "core.company.update", "company", company.ID, before, company)
	api.Success(w, company, shared.RequestID(r))
}

func (h *Handler) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	before, err := h.Service.GetCompany(r.Context(), companyID)
	if err != nil {
		shared.Fail(w, r, err, "company_delete_failed")
		return
	}
	if err := h.Service.DeleteCompany(r.Context(), companyID); err != nil {
		shared.Fail(w, r, err, "company_delete_failed")
		return
	}
	shared.Audit(r, h.Audit, "core.company.delete", "company", companyID, before, nil)
	api.NoContent(w)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.User(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	employees, err := h.Service.ListEmployees(r.Context(), core.EmployeeFilter{
		Status:     strings.TrimSpace(q.Get("status")),
		Department: strings.TrimSpace(q.Get("department")),
		CompanyID:  strings.TrimSpace(q.Get("companyId")),
		Search:     q.Get("search"),
	})
	if err != nil {
		shared.Fail(w, r, err, "employee_list_failed")
		return
	}

	filtered := make([]core.Employee, 0, len(employees))
	for _, emp := range employees {
		if shared.SelfOnly(user) && emp.ID != user.EmployeeID {
			continue
		}
		core.FilterEmployeeFields(&emp, user)
		filtered = append(filtered, emp)
	}
	api.Success(w, filtered, shared.RequestID(r))
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload employeeRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	emp, err := h.Service.CreateEmployee(r.Context(), payload.employee())
	if err != nil {
		shared.Fail(w, r, err, "employee_create_failed")
		return
	}
	shared.Audit(r, h.Audit, "core.employee.create", "employee", emp.ID, nil, emp)
	api.Created(w, emp, shared.RequestID(r))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.User(w, r)
	if !ok {
		return
	}
	employeeID := chi.URLParam(r, "employeeID")
	if !shared.CanAccessEmployee(w, r, user, employeeID) {
		return
	}
	emp, err := h.Service.GetEmployee(r.Context(), employeeID)
	if err != nil {
		shared.Fail(w, r, err, "employee_get_failed")
		return
	}
	core.FilterEmployeeFields(&emp, user)
	api.Success(w, emp, shared.RequestID(r))
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	var payload employeeRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	before, err := h.Service.GetEmployee(r.Context(), employeeID)
	if err != nil {
		shared.Fail(w, r, err, "employee_update_failed")
		return
	}
	next := payload.employee()
	if payload.JoinDate == "" {
		next.JoinDate = before.JoinDate
	}
	emp, err := h.Service.UpdateEmployee(r.Context(), employeeID, next)
	if err != nil {
		shared.Fail(w, r, err, "employee_update_failed")
		return
	}
	shared.Audit(r, h.Audit, "core.employee.update", "employee", emp.ID, before, emp)
	api.Success(w, emp, shared.RequestID(r))
}

func (h *Handler) handleSetEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	var payload statusRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	before, err := h.Service.GetEmployee(r.Context(), employeeID)
	if err != nil {
		shared.Fail(w, r, err, "employee_status_failed")
		return
	}
	emp, err := h.Service.SetEmployeeStatus(r.Context(), employeeID, payload.Status)
	if err != nil {
		shared.Fail(w, r, err, "employee_status_failed")
		return
	}
	if before.Status != emp.Status {
		shared.Audit(r, h.Audit, "core.employee.status", "employee", emp.ID,
			map[string]string{"status": before.Status}, map[string]string{"status": emp.Status})
	}
	api.Success(w, emp, shared.RequestID(r))
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	before, err := h.Service.GetEmployee(r.Context(), employeeID)
	if err != nil {
		shared.Fail(w, r, err, "employee_delete_failed")
		return
	}
	if err := h.Service.DeleteEmployee(r.Context(), employeeID); err != nil {
		shared.Fail(w, r, err, "employee_delete_failed")
		return
	}
	shared.Audit(r, h.Audit, "core.employee.delete", "employee", employeeID, before, nil)
	api.NoContent(w)
}
