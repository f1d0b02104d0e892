package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"staffhive/internal/platform/config"
	"staffhive/internal/platform/db"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Config   config.Config
	Pool     *pgxpool.Pool
	Services *Services
	Router   http.Handler
}

// New validates the configuration, opens the configured store and wires the
// services and router. The pool stays nil when running on the memory driver.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{Config: cfg}
	if cfg.StorageDriver == config.DriverPostgres {
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
				return nil, fmt.Errorf("migrations failed: %w", err)
			}
		}
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect failed: %w", err)
		}
		app.Pool = pool
	}

	services, err := NewServices(cfg, app.Pool)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Services = services
	app.Router = NewRouter(cfg, app.Pool, services)
	return app, nil
}

// Run seeds the store, starts the background jobs and serves HTTP until ctx is
// cancelled, then drains in-flight requests and queued jobs.
func (a *App) Run(ctx context.Context) error {
	if err := Seed(ctx, a.Config, a.Services, a.Config.SeedDemoData); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	jobsCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	a.Services.Jobs.Start(jobsCtx)

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Staff Hive server listening", "addr", a.Config.Addr, "driver", a.Config.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		stopJobs()
		a.Services.Jobs.Wait()
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	stopJobs()
	a.Services.Jobs.Wait()
	return err
}

func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}
