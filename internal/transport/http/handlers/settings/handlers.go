package settingshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffhive/internal/domain/auth"
	"staffhive/internal/domain/settings"
	"staffhive/internal/transport/http/api"
	"staffhive/internal/transport/http/middleware"
	"staffhive/internal/transport/http/shared"
)

type Handler struct {
	Service *settings.Service
	Perms   middleware.PermissionStore
	Audit   shared.AuditRecorder
}

func NewHandler(service *settings.Service, perms middleware.PermissionStore, recorder shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: recorder}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSettingsRead, h.Perms)).Get("/", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermSettingsWrite, h.Perms)).Put("/", h.handleUpdate)
	})
}

type ratesPayload struct {
	BonusBP   int64 `json:"bonusBp" validate:"gte=0,lte=10000"`
	TaxBP     int64 `json:"taxBp" validate:"gte=0,lte=10000"`
	PensionBP int64 `json:"pensionBp" validate:"gte=0,lte=10000"`
}

type updateRequest struct {
	CompanyName      string             `json:"companyName" validate:"required,max=200"`
	Currency         string             `json:"currency" validate:"required,len=3"`
	Payroll          ratesPayload       `json:"payroll"`
	LeaveAllocations map[string]float64 `json:"leaveAllocations" validate:"omitempty,dive,gte=0"`
	PayRule          string             `json:"payRule"`
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	current, err := h.Service.Get(r.Context())
	if err != nil {
		shared.Fail(w, r, err, "settings_get_failed")
		return
	}
	api.Success(w, current, shared.RequestID(r))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload updateRequest
	if !shared.Decode(w, r, &payload) {
		return
	}
	before, err := h.Service.Get(r.Context())
	if err != nil {
		shared.Fail(w, r, err, "settings_update_failed")
		return
	}
	updated, err := h.Service.Update(r.Context(), settings.Settings{
		CompanyName:      payload.CompanyName,
		Currency:         payload.Currency,
		Payroll:          settings.PayrollRates(payload.Payroll),
		LeaveAllocations: payload.LeaveAllocations,
		PayRule:          payload.PayRule,
	})
	if err != nil {
		shared.Fail(w, r, err, "settings_update_failed")
		return
	}
	shared.Audit(r, h.Audit, "settings.update", "settings", "global", before, updated)
	api.Success(w, updated, shared.RequestID(r))
}
