package attendancehandler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"staffhive/internal/domain/attendance"
	"staffhive/internal/domain/auth"
	"staffhive/internal/domain/core"
	"staffhive/internal/transport/http/middleware"
)

func TestCheckInFlow(t *testing.T) {
	directory := core.NewService(core.NewMemoryStore())
	emp, err := directory.CreateEmployee(context.Background(), core.Employee{Name: "Bola Ade", Email: "bola@example.com"})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	other, err := directory.CreateEmployee(context.Background(), core.Employee{Name: "Kunle Obi", Email: "kunle@example.com"})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	svc := attendance.NewService(attendance.NewMemoryStore(), directory)
	h := NewHandler(svc, auth.NewService(auth.NewMemoryStore(), "unused", time.Hour), nil)

	user := auth.UserContext{UserID: "u-1", EmployeeID: emp.ID, RoleName: auth.RoleEmployee}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	h.RegisterRoutes(r)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	if rec := do(http.MethodPost, "/attendance/check-in", `{"location":"Lagos HQ"}`); rec.Code != http.StatusCreated {
		t.Fatalf("check-in: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(http.MethodPost, "/attendance/check-in", `{}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected second check-in to conflict, got %d", rec.Code)
	}
	if rec := do(http.MethodPost, "/attendance/check-in", `{"employeeId":"`+other.ID+`"}`); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 clocking in someone else, got %d", rec.Code)
	}
	if rec := do(http.MethodPost, "/attendance/check-out", `{}`); rec.Code != http.StatusOK {
		t.Fatalf("check-out: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(http.MethodPost, "/attendance/check-out", `{}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected second check-out to conflict, got %d", rec.Code)
	}

	rec := do(http.MethodGet, "/attendance/today", "")
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(emp.ID)) {
		t.Fatalf("unexpected day listing %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(http.MethodGet, "/attendance/today/report", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected employees to be denied the report, got %d", rec.Code)
	}
	if rec := do(http.MethodGet, "/attendance/not-a-date", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad date, got %d", rec.Code)
	}
}
