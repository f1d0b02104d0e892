package shared

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"staffhive/internal/domain/leave"
)

type samplePayload struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Period string `json:"period" validate:"omitempty,period"`
}

func TestDecodeReportsFieldIssues(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"email":"nope","period":"2024/03"}`))
	rec := httptest.NewRecorder()
	var payload samplePayload
	if Decode(rec, req, &payload) {
		t.Fatal("expected decode to fail")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Fields []ValidationIssue `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	fields := env.Error.Details.Fields
	if env.Error.Code != "validation_error" || len(fields) != 3 {
		t.Fatalf("unexpected issues %+v", env)
	}
	if fields[0].Field != "email" || fields[1].Field != "name" || fields[2].Field != "period" {
		t.Fatalf("issues not sorted by json field name: %+v", fields)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"a","email":"a@example.com","role":"HR"}`))
	rec := httptest.NewRecorder()
	var payload samplePayload
	if Decode(rec, req, &payload) || rec.Code != http.StatusBadRequest {
		t.Fatalf("expected invalid payload, got %d", rec.Code)
	}
}

func TestFailMapsWrappedErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	Fail(rec, req, fmt.Errorf("submit: %w", leave.ErrInsufficientBalance), "leave_submit_failed")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	Fail(rec, req, fmt.Errorf("boom"), "leave_submit_failed")
	if rec.Code != http.StatusInternalServerError || !bytes.Contains(rec.Body.Bytes(), []byte("leave_submit_failed")) {
		t.Fatalf("unexpected fallback %d %s", rec.Code, rec.Body.String())
	}
}
