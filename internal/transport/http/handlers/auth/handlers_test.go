package authhandler

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
	"staffhive/internal/transport/http/middleware"
)

const testSecret = "test-secret-test-secret-test-secret"

func newTestRouter(t *testing.T) (*chi.Mux, *auth.Service) {
	t.Helper()
	svc := auth.NewService(auth.NewMemoryStore(), testSecret, time.Hour)
	h := NewHandler(svc, core.NewService(core.NewMemoryStore()), nil)

	r := chi.NewRouter()
	r.Use(middleware.Auth(testSecret))
	r.Post("/auth/login", h.HandleLogin)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		h.RegisterRoutes(r)
	})
	return r, svc
}

func login(t *testing.T, r http.Handler, email, password string) (int, string) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))
	var env struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec.Code, env.Data.Token
}

func TestLoginIssuesToken(t *testing.T) {
	r, svc := newTestRouter(t)
	if _, err := svc.CreateUser(context.Background(), "hr@example.com", "password123", auth.RoleHR, ""); err != nil {
		t.Fatalf("create user: %v", err)
	}

	status, token := login(t, r, "HR@example.com", "password123")
	if status != http.StatusOK || token == "" {
		t.Fatalf("expected token, got status %d", status)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"role":"HR"`)) {
		t.Fatalf("unexpected /me response %d %s", rec.Code, rec.Body.String())
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, svc := newTestRouter(t)
	if _, err := svc.CreateUser(context.Background(), "hr@example.com", "password123", auth.RoleHR, ""); err != nil {
		t.Fatalf("create user: %v", err)
	}

	for _, tc := range []struct{ email, password string }{
		{"hr@example.com", "wrong-password"},
		{"nobody@example.com", "password123"},
	} {
		if status, _ := login(t, r, tc.email, tc.password); status != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", tc.email, status)
		}
	}
}

func TestCreateUserRequiresHR(t *testing.T) {
	r, svc := newTestRouter(t)
	if _, err := svc.CreateUser(context.Background(), "staff@example.com", "password123", auth.RoleEmployee, ""); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, token := login(t, r, "staff@example.com", "password123")

	body := bytes.NewBufferString(`{"email":"new@example.com","password":"password123","role":"HR"}`)
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
