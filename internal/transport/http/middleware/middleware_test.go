package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"staffhive/internal/domain/auth"
	"staffhive/internal/platform/metrics"
)

type permissionFunc func(role, perm string) bool

func (f permissionFunc) HasPermission(ctx context.Context, role, perm string) (bool, error) {
	return f(role, perm), nil
}

func TestRequestHashDeterministic(t *testing.T) {
	if RequestHash([]byte("payload")) != RequestHash([]byte("payload")) {
		t.Fatal("expected deterministic hash")
	}
	if RequestHash([]byte("payload")) == RequestHash([]byte("other")) {
		t.Fatal("expected different hash for different payload")
	}
}

func TestIdempotentReplaysAndRejectsConflicts(t *testing.T) {
	calls := 0
	handler := Idempotent(NewMemoryIdempotencyStore())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/generate", bytes.NewBufferString(body))
		req.Header.Set(IdempotencyHeader, "key-1")
		req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "hr-1"}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send(`{"period":"2024-03"}`)
	replay := send(`{"period":"2024-03"}`)
	conflict := send(`{"period":"2024-04"}`)

	if first.Code != http.StatusCreated || replay.Code != http.StatusCreated {
		t.Fatalf("unexpected statuses %d %d", first.Code, replay.Code)
	}
	if replay.Header().Get("Idempotent-Replay") != "true" || replay.Body.String() != `{"success":true}` {
		t.Fatalf("expected replayed response, got %q", replay.Body.String())
	}
	if conflict.Code != http.StatusConflict {
		t.Fatalf("expected conflict, got %d", conflict.Code)
	}
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
}

func TestRequestIDAndLogger(t *testing.T) {
	collector := metrics.New()
	handler := RequestID(Logger(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetRequestID(r.Context()) != "abc" {
			t.Fatalf("request id not propagated")
		}
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") != "abc" {
		t.Fatalf("missing response request id")
	}
	if snap := collector.Snapshot(); snap.RequestsTotal != 1 {
		t.Fatalf("expected request to be recorded, got %+v", snap)
	}
}

func TestRecovererReturns500(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
