package recruitmenthandler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"staffhive/internal/domain/auth"
	"staffhive/internal/domain/postings"
	"staffhive/internal/domain/recruitment"
	"staffhive/internal/transport/http/middleware"
)

func newRouter(t *testing.T, role string) http.Handler {
	t.Helper()
	jobs := postings.NewService(postings.NewMemoryStore())
	applicants := recruitment.NewService(recruitment.NewMemoryStore(), jobs)
	jobs.SetApplicantCounter(applicants)
	h := NewHandler(applicants, jobs, auth.NewService(auth.NewMemoryStore(), "unused", time.Hour), nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			user := auth.UserContext{UserID: "u-1", RoleName: role}
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	h.RegisterRoutes(r)
	return r
}

func call(t *testing.T, h http.Handler, method, path string, body any, out any) int {
	t.Helper()
	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil {
		env := struct {
			Data any `json:"data"`
		}{Data: out}
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return rec.Code
}

func TestApplicantPipeline(t *testing.T) {
	h := newRouter(t, auth.RoleHR)

	var posting postings.Posting
	if code := call(t, h, http.MethodPost, "/jobs", map[string]any{
		"title": "Data Analyst",
		"type":  "full-time",
	}, &posting); code != http.StatusCreated {
		t.Fatalf("create posting: %d", code)
	}

	var applicant recruitment.Applicant
	if code := call(t, h, http.MethodPost, "/applicants", map[string]any{
		"name":      "Funmi Ade",
		"email":     "funmi@example.com",
		"postingId": posting.ID,
	}, &applicant); code != http.StatusCreated {
		t.Fatalf("create applicant: %d", code)
	}
	if applicant.Stage != recruitment.StageApplied || applicant.Position != "Data Analyst" {
		t.Fatalf("unexpected applicant %+v", applicant)
	}

	if code := call(t, h, http.MethodPost, "/applicants/"+applicant.ID+"/stage", map[string]string{"stage": recruitment.StageOffered}, nil); code != http.StatusConflict {
		t.Fatalf("expected skipping a stage to conflict, got %d", code)
	}
	if code := call(t, h, http.MethodPost, "/applicants/"+applicant.ID+"/stage", map[string]string{"stage": recruitment.StageInterviewing}, &applicant); code != http.StatusOK {
		t.Fatalf("move stage: %d", code)
	}
	if applicant.Stage != recruitment.StageInterviewing {
		t.Fatalf("expected interviewing, got %s", applicant.Stage)
	}

	var stats struct {
		Total   int            `json:"total"`
		ByStage map[string]int `json:"byStage"`
	}
	if code := call(t, h, http.MethodGet, "/applicants/stats", nil, &stats); code != http.StatusOK {
		t.Fatalf("stats: %d", code)
	}
	if stats.Total != 1 || stats.ByStage[recruitment.StageInterviewing] != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	if code := call(t, h, http.MethodGet, "/jobs/"+posting.ID, nil, &posting); code != http.StatusOK {
		t.Fatalf("get posting: %d", code)
	}
	if posting.Applicants != 1 {
		t.Fatalf("expected applicant count 1, got %d", posting.Applicants)
	}
}

func TestEmployeesCannotManageRecruitment(t *testing.T) {
	h := newRouter(t, auth.RoleEmployee)
	if code := call(t, h, http.MethodGet, "/applicants", nil, nil); code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
}
