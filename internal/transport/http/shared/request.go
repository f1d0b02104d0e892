package shared

import (
	"context"
	"net"
	"net/http"
	"strings"

	"staffhive/internal/domain/audit"
	"staffhive/internal/domain/auth"
	"staffhive/internal/platform/logger"
	"staffhive/internal/transport/http/api"
	"staffhive/internal/transport/http/middleware"
)

func RequestID(r *http.Request) string {
	return middleware.GetRequestID(r.Context())
}

// User returns the authenticated caller or writes 401.
func User(w http.ResponseWriter, r *http.Request) (auth.UserContext, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", RequestID(r))
	}
	return user, ok
}

// SelfOnly reports whether the caller may only see their own records.
func SelfOnly(user auth.UserContext) bool {
	return user.RoleName == auth.RoleEmployee
}

// CanAccessEmployee writes 403 when a self-only caller targets someone else.
func CanAccessEmployee(w http.ResponseWriter, r *http.Request, user auth.UserContext, employeeID string) bool {
	if SelfOnly(user) && user.EmployeeID != employeeID {
		api.Fail(w, http.StatusForbidden, "forbidden", "access limited to own records", RequestID(r))
		return false
	}
	return true
}

func ClientIP(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type AuditRecorder interface {
	Record(ctx context.Context, evt audit.Event, before, after any) error
}

// Audit records a mutation made by the caller. Failures are logged and never
// fail the request.
func Audit(r *http.Request, recorder AuditRecorder, action, entityType, entityID string, before, after any) {
	if recorder == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	evt := audit.Event{
		ActorID:    user.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  RequestID(r),
		IP:         ClientIP(r),
	}
	if err := recorder.Record(r.Context(), evt, before, after); err != nil {
		logger.From(r.Context()).Warn("audit "+action+" failed", "err", err)
	}
}
