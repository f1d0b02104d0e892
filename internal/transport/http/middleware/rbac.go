package middleware

import (
	"context"
	"net/http"

	"staffhive/internal/platform/logger"
	"staffhive/internal/transport/http/api"
)

// PermissionStore answers role checks; auth.Service satisfies it from the
// static role table.
type PermissionStore interface {
	HasPermission(ctx context.Context, role, permission string) (bool, error)
}

// RequirePermission lets the request through only when the caller's role holds
// permission. Denials are logged with the role so misconfigured roles show up.
func RequirePermission(permission string, store PermissionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			reqID := GetRequestID(ctx)
			user, ok := GetUser(ctx)
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
				return
			}

			switch allowed, err := store.HasPermission(ctx, user.RoleName, permission); {
			case err != nil:
				logger.From(ctx).Error("permission lookup failed", "permission", permission, "err", err)
				api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", reqID)
			case !allowed:
				logger.From(ctx).Info("permission denied", "role", user.RoleName, "permission", permission, "path", r.URL.Path)
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", reqID)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
