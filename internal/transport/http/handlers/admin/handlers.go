package adminhandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"staffhive/internal/domain/auth"
	"staffhive/internal/platform/jobs"
	"staffhive/internal/platform/localstore"
	"staffhive/internal/transport/http/api"
	"staffhive/internal/transport/http/middleware"
	"staffhive/internal/transport/http/shared"
)

type Handler struct {
	Jobs     *jobs.Service
	Importer *localstore.Importer
	Perms    middleware.PermissionStore
	Audit    shared.AuditRecorder
}

func NewHandler(jobsSvc *jobs.Service, importer *localstore.Importer, perms middleware.PermissionStore, recorder shared.AuditRecorder) *Handler {
	return &Handler{Jobs: jobsSvc, Importer: importer, Perms: perms, Audit: recorder}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAuditRead, h.Perms)).Get("/job-runs", h.handleListRuns)
		r.With(middleware.RequirePermission(auth.PermSettingsWrite, h.Perms)).Post("/jobs/{jobType}/run", h.handleRunJob)
		r.With(middleware.RequirePermission(auth.PermSettingsWrite, h.Perms)).Post("/import/localstorage", h.handleImport)
	})
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	runs, err := h.Jobs.ListRuns(r.Context(), strings.TrimSpace(r.URL.Query().Get("type")), page.Limit)
	if err != nil {
		shared.Fail(w, r, err, "job_runs_failed")
		return
	}
	if runs == nil {
		runs = []jobs.Run{}
	}
	api.Success(w, runs, shared.RequestID(r))
}

func (h *Handler) handleRunJob(w http.ResponseWriter, r *http.Request) {
	jobType := chi.URLParam(r, "jobType")
	details, err := h.Jobs.Trigger(r.Context(), jobType)
	if err != nil {
		shared.Fail(w, r, err, "job_run_failed")
		return
	}
	shared.Audit(r, h.Audit, "admin.job.run", "job", jobType, nil, details)
	api.Success(w, map[string]any{"jobType": jobType, "details": details}, shared.RequestID(r))
}

// handleImport loads a browser local-storage export. The request body is the
// export itself; invalid records are reported back rather than loaded.
func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	var result localstore.Result
	_, err := h.Jobs.RunNow(r.Context(), jobs.JobLegacyImport, func(ctx context.Context) (any, error) {
		res, err := h.Importer.Import(ctx, r.Body)
		result = res
		return res, err
	})
	if err != nil {
		shared.Fail(w, r, err, "import_failed")
		return
	}
	shared.Audit(r, h.Audit, "admin.import.localstorage", "import", "", nil, map[string]int{
		"attendance": result.Attendance,
		"leave":      result.Leave,
		"jobs":       result.Jobs,
		"skipped":    len(result.Skipped),
	})
	api.Success(w, result, shared.RequestID(r))
}
