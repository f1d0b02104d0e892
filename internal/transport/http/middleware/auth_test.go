package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"staffhive/internal/domain/auth"
)

func TestAuthMiddlewareSetsUser(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", EmployeeID: "e1", RoleName: auth.RoleHR}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	called := false
	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		user, ok := GetUser(r.Context())
		if !ok {
			t.Fatal("expected user in context")
		}
		if user.UserID != "u1" || user.EmployeeID != "e1" || user.RoleName != auth.RoleHR {
			t.Fatalf("unexpected user: %+v", user)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Fatal("handler not called")
	}
}

func TestAuthMiddlewareIgnoresBadTokens(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("did not expect user in context")
		}
	}))

	for _, header := range []string{"", "Basic abc", "Bearer not-a-token"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func TestRequireAuthAndPermission(t *testing.T) {
	perms := permissionFunc(func(role, perm string) bool { return auth.RoleHasPermission(role, perm) })
	handler := RequireAuth(RequirePermission(auth.PermPayrollRun, perms)(http.HandlerFunc(noContent)))

	anon := httptest.NewRecorder()
	handler.ServeHTTP(anon, httptest.NewRequest(http.MethodPost, "/", nil))
	if anon.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", anon.Code)
	}

	employee := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	handler.ServeHTTP(employee, req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "u", RoleName: auth.RoleEmployee})))
	if employee.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", employee.Code)
	}

	hr := httptest.NewRecorder()
	handler.ServeHTTP(hr, req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "u", RoleName: auth.RoleHR})))
	if hr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", hr.Code)
	}
}
