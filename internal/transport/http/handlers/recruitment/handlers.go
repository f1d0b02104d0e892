package recruitmenthandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"staffhive/internal/domain/auth"
	"staffhive/internal/domain/postings"
	"staffhive/internal/domain/recruitment"
	"staffhive/internal/transport/http/api"
	"staffhive/internal/transport/http/middleware"
	"staffhive/internal/transport/http/shared"
)

type Handler struct {
	Applicants *recruitment.Service
	Postings   *postings.Service
	Perms      middleware.PermissionStore
	Audit      shared.AuditRecorder
}

func NewHandler(applicants *recruitment.Service, jobs *postings.Service, perms middleware.PermissionStore, recorder shared.AuditRecorder) *Handler {
	return &Handler{Applicants: applicants, Postings: jobs, Perms: perms, Audit: recorder}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermRecruitmentRead, h.Perms)
	write := middleware.RequirePermission(auth.PermRecruitmentWrite, h.Perms)

	r.Route("/applicants", func(r chi.Router) {
		r.With(read).Get("/", h.handleListApplicants)
		r.With(read).Get("/stats", h.handleApplicantStats)
		r.With(write).Post("/", h.handleCreateApplicant)
		r.Route("/{applicantID}", func(r chi.Router) {
			r.With(read).Get("/", h.handleGetApplicant)
			r.With(write).Put("/", h.handleUpdateApplicant)
			r.With(write).Post("/stage", h.handleMoveStage)
			r.With(write).Delete("/", h.handleDeleteApplicant)
		})
	})
	r.Route("/jobs", func(r chi.Router) {
		r.With(read).Get("/", h.handleListPostings)
		r.With(write).Post("/", h.handleCreatePosting)
		r.Route("/{postingID}", func(r chi.Router) {
			r.With(read).Get("/", h.handleGetPosting)
			r.With(write).Put("/", h.handleUpdatePosting)
			r.With(write).Put("/status", h.handleSetPostingStatus)
			r.With(write).Delete("/", h.handleDeletePosting)
		})
	})
}

type applicantRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	Position    string `json:"position"`
	PostingID   string `json:"postingId"`
	AppliedDate string `json:"appliedDate" validate:"omitempty,isodate"`
	Resume      string `json:"resume"`
	CoverLetter string `json:"coverLetter"`
	Notes       string `json:"notes"`
}

func (p applicantRequest) applicant() recruitment.Applicant {
	a := recruitment.Applicant{
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		Position:    p.Position,
		PostingID:   p.PostingID,
		Resume:      p.Resume,
		CoverLetter: p.CoverLetter,
		Notes:       p.Notes,
	}
	if applied, err := shared.ParseDate(p.AppliedDate); err == nil {
		a.AppliedDate = applied
	}
	return a
}

type stageRequest struct {
	Stage string `json:"stage" validate:"required,oneof=applied interviewing offered hired rejected"`
}

type postingRequest struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	Type         string   `json:"type" validate:"omitempty,oneof=full-time part-time contract internship"`
	Salary       string   `json:"salary"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Benefits     []string `json:"benefits"`
	Status       string   `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (p postingRequest) posting() postings.Posting {
	return postings.Posting{
		Title:        p.Title,
		Company:      p.Company,
		Location:     p.Location,
		Type:         p.Type,
		Salary:       p.Salary,
		Description:  p.Description,
		Requirements: p.Requirements,
		Benefits:     p.Benefits,
		Status:       p.Status,
	}
}

type postingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

func (h *Handler) handleListApplicants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.Applicants.ListApplicants(r.Context(), recruitment.Filter{
		Stage:     strings.TrimSpace(q.Get("stage")),
		PostingID: strings.TrimSpace(q.Get("postingId")),
	})
	if err != nil {
		shared.Fail(w, r, err, "applicant_list_failed")
		return
	}
	if list == nil {
		list = []recruitment.Applicant{}
	}
	api.Success(w, list, shared.RequestID(r))
}

func (h *Handler) handleApplicantStats(w http.ResponseWriter, r *http.Request) {
	byStage, err := h.Applicants.CountByStage(r.Context())
	if err != nil {
		shared.Fail(w, r, err, "applicant_stats_failed")
		return
	}
	total := 0
	for _, n := range byStage {
		total += n
	}
	api.Success(w, map[string]any{"total": total, "byStage": byStage}, shared.RequestID(r))
}

func (h *Handler) handleCreateApplicant(w http.ResponseWriter, r *http.Request) {
	var payload applicantRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	applicant, err := h.Applicants.AddApplicant(r.Context(), payload.applicant())
	if err != nil {
		shared.Fail(w, r, err, "applicant_create_failed")
		return
	}
	shared.Audit(r, h.Audit, "recruitment.applicant.create", "applicant", applicant.ID, nil, applicant)
	api.Created(w, applicant, shared.RequestID(r))
}

func (h *Handler) handleGetApplicant(w http.ResponseWriter, r *http.Request) {
	applicant, err := h.Applicants.GetApplicant(r.Context(), chi.URLParam(r, "applicantID"))
	if err != nil {
		shared.Fail(w, r, err, "applicant_get_failed")
		return
	}
	api.Success(w, applicant, shared.RequestID(r))
}

func (h *Handler) handleUpdateApplicant(w http.ResponseWriter, r *http.Request) {
	applicantID := chi.URLParam(r, "applicantID")
	var payload applicantRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	before, err := h.Applicants.GetApplicant(r.Context(), applicantID)
	if err != nil {
		shared.Fail(w, r, err, "applicant_update_failed")
		return
	}
	applicant, err := h.Applicants.UpdateApplicant(r.Context(), applicantID, payload.applicant())
	if err != nil {
		shared.Fail(w, r, err, "applicant_update_failed")
		return
	}
	shared.Audit(r, h.Audit, "recruitment.applicant.update", "applicant", applicant.ID, before, applicant)
	api.Success(w, applicant, shared.RequestID(r))
}

func (h *Handler) handleMoveStage(w http.ResponseWriter, r *http.Request) {
	applicantID := chi.URLParam(r, "applicantID")
	var payload stageRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	before, err := h.Applicants.GetApplicant(r.Context(), applicantID)
	if err != nil {
		shared.Fail(w, r, err, "applicant_stage_failed")
		return
	}
	applicant, err := h.Applicants.MoveStage(r.Context(), applicantID, payload.Stage)
	if err != nil {
		shared.Fail(w, r, err, "applicant_stage_failed")
		return
	}
	shared.Audit(r, h.Audit, "recruitment.applicant.stage", "applicant", applicant.ID,
		map[string]string{"stage": before.Stage}, map[string]string{"stage": applicant.Stage})
	api.Success(w, applicant, shared.RequestID(r))
}

func (h *Handler) handleDeleteApplicant(w http.ResponseWriter, r *http.Request) {
	applicantID := chi.URLParam(r, "applicantID")
	before, err := h.Applicants.GetApplicant(r.Context(), applicantID)
	if err != nil {
		shared.Fail(w, r, err, "applicant_delete_failed")
		return
	}
	if err := h.Applicants.DeleteApplicant(r.Context(), applicantID); err != nil {
		shared.Fail(w, r, err, "applicant_delete_failed")
		return
	}
	shared.Audit(r, h.Audit, "recruitment.applicant.delete", "applicant", applicantID, before, nil)
	api.NoContent(w)
}

func (h *Handler) handleListPostings(w http.ResponseWriter, r *http.Request) {
	list, err := h.Postings.ListPostings(r.Context(), strings.TrimSpace(r.URL.Query().Get("status")))
	if err != nil {
		shared.Fail(w, r, err, "job_list_failed")
		return
	}
	if list == nil {
		list = []postings.Posting{}
	}
	api.Success(w, list, shared.RequestID(r))
}

func (h *Handler) handleCreatePosting(w http.ResponseWriter, r *http.Request) {
	var payload postingRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	posting, err := h.Postings.CreatePosting(r.Context(), payload.posting())
	if err != nil {
		shared.Fail(w, r, err, "job_create_failed")
		return
	}
	shared.Audit(r, h.Audit, "recruitment.job.create", "job_posting", posting.ID, nil, posting)
	api.Created(w, posting, shared.RequestID(r))
}

func (h *Handler) handleGetPosting(w http.ResponseWriter, r *http.Request) {
	posting, err := h.Postings.GetPosting(r.Context(), chi.URLParam(r, "postingID"))
	if err != nil {
		shared.Fail(w, r, err, "job_get_failed")
		return
	}
	api.Success(w, posting, shared.RequestID(r))
}

func (h *Handler) handleUpdatePosting(w http.ResponseWriter, r *http.Request) {
	postingID := chi.URLParam(r, "postingID")
	var payload postingRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	before, err := h.Postings.GetPosting(r.Context(), postingID)
	if err != nil {
		shared.Fail(w, r, err, "job_update_failed")
		return
	}
	posting, err := h.Postings.UpdatePosting(r.Context(), postingID, payload.posting())
	if err != nil {
		shared.Fail(w, r, err, "job_update_failed")
		return
	}
	shared.Audit(r, h.Audit, "recruitment.job.update", "job_posting", posting.ID, before, posting)
	api.Success(w, posting, shared.RequestID(r))
}

func (h *Handler) handleSetPostingStatus(w http.ResponseWriter, r *http.Request) {
	postingID := chi.URLParam(r, "postingID")
	var payload postingStatusRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	before, err := h.Postings.GetPosting(r.Context(), postingID)
	if err != nil {
		shared.Fail(w, r, err, "job_status_failed")
		return
	}
	posting, err := h.Postings.SetStatus(r.Context(), postingID, payload.Status)
	if err != nil {
		shared.Fail(w, r, err, "job_status_failed")
		return
	}
	if before.Status != posting.Status {
		shared.Audit(r, h.Audit, "recruitment.job.status", "job_posting", posting.ID,
			map[string]string{"status": before.Status}, map[string]string{"status": posting.Status})
	}
	api.Success(w, posting, shared.RequestID(r))
}

func (h *Handler) handleDeletePosting(w http.ResponseWriter, r *http.Request) {
	postingID := chi.URLParam(r, "postingID")
	before, err := h.Postings.GetPosting(r.Context(), postingID)
	if err != nil {
		shared.Fail(w, r, err, "job_delete_failed")
		return
	}
	if err := h.Postings.DeletePosting(r.Context(), postingID); err != nil {
		shared.Fail(w, r, err, "job_delete_failed")
		return
	}
	shared.Audit(r, h.Audit, "recruitment.job.delete", "job_posting", postingID, before, nil)
	api.NoContent(w)
}
