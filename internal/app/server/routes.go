package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffhive/internal/platform/config"
	"staffhive/internal/transport/http/api"
	adminhandler "staffhive/internal/transport/http/handlers/admin"
	attendancehandler "staffhive/internal/transport/http/handlers/attendance"
	audithandler "staffhive/internal/transport/http/handlers/audit"
	authhandler "staffhive/internal/transport/http/handlers/auth"
	corehandler "staffhive/internal/transport/http/handlers/core"
	leavehandler "staffhive/internal/transport/http/handlers/leave"
	payrollhandler "staffhive/internal/transport/http/handlers/payroll"
	recruitmenthandler "staffhive/internal/transport/http/handlers/recruitment"
	reportshandler "staffhive/internal/transport/http/handlers/reports"
	settingshandler "staffhive/internal/transport/http/handlers/settings"
	"staffhive/internal/transport/http/middleware"
)

// NewRouter builds the HTTP surface. Only login and the probes are reachable
// without a bearer token.
func NewRouter(cfg config.Config, pool *pgxpool.Pool, svc *Services) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(svc.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if pool != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := pool.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, svc.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	perms := svc.Auth
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

		authHandler := authhandler.NewHandler(svc.Auth, svc.Core, svc.Audit)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Idempotent(svc.Idempotency))

			authHandler.RegisterRoutes(r)
			corehandler.NewHandler(svc.Core, perms, svc.Audit).RegisterRoutes(r)
			recruitmenthandler.NewHandler(svc.Recruitment, svc.Postings, perms, svc.Audit).RegisterRoutes(r)
			payrollhandler.NewHandler(svc.Payroll, perms, svc.Audit).RegisterRoutes(r)
			leavehandler.NewHandler(svc.Leave, svc.Core, perms, svc.Audit).RegisterRoutes(r)
			attendancehandler.NewHandler(svc.Attendance, perms, svc.Audit).RegisterRoutes(r)
			reportshandler.NewHandler(svc.Reports, svc.Leave, svc.Payroll, svc.Attendance, perms).RegisterRoutes(r)
			settingshandler.NewHandler(svc.Settings, perms, svc.Audit).RegisterRoutes(r)
			audithandler.NewHandler(svc.Audit, perms).RegisterRoutes(r)
			adminhandler.NewHandler(svc.Jobs, svc.Importer, perms, svc.Audit).RegisterRoutes(r)
		})
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})
	return router
}
