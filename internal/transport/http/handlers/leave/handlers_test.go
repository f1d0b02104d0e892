package leavehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"staffhive/internal/domain/auth"
	"staffhive/internal/domain/core"
	"staffhive/internal/domain/leave"
	"staffhive/internal/domain/settings"
	"staffhive/internal/transport/http/middleware"
)

type fixture struct {
	handler  *Handler
	manager  core.Employee
	employee core.Employee
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	directory := core.NewService(core.NewMemoryStore())
	manager, err := directory.CreateEmployee(ctx, core.Employee{Name: "Morayo Manager", Email: "manager@example.com"})
	if err != nil {
		t.Fatalf("create manager: %v", err)
	}
	employee, err := directory.CreateEmployee(ctx, core.Employee{Name: "Eze Employee", Email: "employee@example.com"})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	svc := leave.NewService(leave.NewMemoryStore(), directory, settings.NewService(settings.NewMemoryStore()))
	perms := auth.NewService(auth.NewMemoryStore(), "unused", time.Hour)
	return fixture{
		handler:  NewHandler(svc, directory, perms, nil),
		manager:  manager,
		employee: employee,
	}
}

func (f fixture) serve(t *testing.T, user auth.UserContext, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	f.handler.RegisterRoutes(r)

	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func requestID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Data leave.Request `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Data.ID
}

func TestManagerCannotApproveOwnLeave(t *testing.T) {
	f := newFixture(t)
	manager := auth.UserContext{UserID: "u-manager", EmployeeID: f.manager.ID, RoleName: auth.RoleManager}
	hr := auth.UserContext{UserID: "u-hr", RoleName: auth.RoleHR}

	rec := f.serve(t, manager, http.MethodPost, "/leave/requests", map[string]string{
		"leaveType": settings.LeaveAnnual,
		"startDate": "2026-11-02",
		"endDate":   "2026-11-03",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	id := requestID(t, rec)

	rec = f.serve(t, manager, http.MethodPost, "/leave/requests/"+id+"/approve", nil)
	if rec.Code != http.StatusForbidden || !bytes.Contains(rec.Body.Bytes(), []byte("self_approval")) {
		t.Fatalf("expected self_approval 403, got %d %s", rec.Code, rec.Body.String())
	}

	rec = f.serve(t, hr, http.MethodPost, "/leave/requests/"+id+"/approve", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("hr approve: %d %s", rec.Code, rec.Body.String())
	}
}

func TestEmployeeSeesOnlyOwnRequests(t *testing.T) {
	f := newFixture(t)
	manager := auth.UserContext{UserID: "u-manager", EmployeeID: f.manager.ID, RoleName: auth.RoleManager}
	employee := auth.UserContext{UserID: "u-employee", EmployeeID: f.employee.ID, RoleName: auth.RoleEmployee}

	rec := f.serve(t, manager, http.MethodPost, "/leave/requests", map[string]string{
		"leaveType": settings.LeaveAnnual,
		"startDate": "2026-11-02",
		"endDate":   "2026-11-02",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	id := requestID(t, rec)

	if rec := f.serve(t, employee, http.MethodGet, "/leave/requests/"+id, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	rec = f.serve(t, employee, http.MethodPost, "/leave/requests", map[string]string{
		"employeeId": f.manager.ID,
		"leaveType":  settings.LeaveAnnual,
		"startDate":  "2026-11-02",
		"endDate":    "2026-11-02",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 submitting for someone else, got %d", rec.Code)
	}
}

func TestSubmitBeyondBalanceConflicts(t *testing.T) {
	f := newFixture(t)
	employee := auth.UserContext{UserID: "u-employee", EmployeeID: f.employee.ID, RoleName: auth.RoleEmployee}

	rec := f.serve(t, employee, http.MethodPost, "/leave/requests", map[string]string{
		"leaveType": settings.LeaveAnnual,
		"startDate": "2026-01-05",
		"endDate":   "2026-12-18",
	})
	if rec.Code != http.StatusConflict || !bytes.Contains(rec.Body.Bytes(), []byte("insufficient_balance")) {
		t.Fatalf("expected insufficient_balance 409, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestOnlyRequesterOrHRCanCancel(t *testing.T) {
	f := newFixture(t)
	manager := auth.UserContext{UserID: "u-manager", EmployeeID: f.manager.ID, RoleName: auth.RoleManager}
	employee := auth.UserContext{UserID: "u-employee", EmployeeID: f.employee.ID, RoleName: auth.RoleEmployee}
	hr := auth.UserContext{UserID: "u-hr", RoleName: auth.RoleHR}

	submit := func() string {
		rec := f.serve(t, employee, http.MethodPost, "/leave/requests", map[string]string{
			"leaveType": settings.LeaveAnnual,
			"startDate": "2026-11-02",
			"endDate":   "2026-11-02",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
		}
		return requestID(t, rec)
	}

	first := submit()
	rec := f.serve(t, manager, http.MethodPost, "/leave/requests/"+first+"/cancel", nil)
	if rec.Code != http.StatusForbidden || !bytes.Contains(rec.Body.Bytes(), []byte("not_requester")) {
		t.Fatalf("expected not_requester 403, got %d %s", rec.Code, rec.Body.String())
	}
	if rec := f.serve(t, employee, http.MethodPost, "/leave/requests/"+first+"/cancel", nil); rec.Code != http.StatusOK {
		t.Fatalf("requester cancel: %d %s", rec.Code, rec.Body.String())
	}

	second := submit()
	if rec := f.serve(t, hr, http.MethodPost, "/leave/requests/"+second+"/cancel", nil); rec.Code != http.StatusOK {
		t.Fatalf("hr cancel: %d %s", rec.Code, rec.Body.String())
	}
}
