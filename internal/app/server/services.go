package server

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"staffhive/internal/domain/attendance"
	"staffhive/internal/domain/audit"
	"staffhive/internal/domain/auth"
	"staffhive/internal/domain/core"
	"staffhive/internal/domain/leave"
	"staffhive/internal/domain/payroll"
	"staffhive/internal/domain/postings"
	"staffhive/internal/domain/recruitment"
	"staffhive/internal/domain/reports"
	"staffhive/internal/domain/settings"
	"staffhive/internal/platform/config"
	cryptoutil "staffhive/internal/platform/crypto"
	"staffhive/internal/platform/email"
	"staffhive/internal/platform/jobs"
	"staffhive/internal/platform/localstore"
	"staffhive/internal/platform/metrics"
	"staffhive/internal/transport/http/middleware"
)

// Services is the wired application graph shared by the HTTP server and the CLI.
type Services struct {
	Auth        *auth.Service
	Core        *core.Service
	Postings    *postings.Service
	Recruitment *recruitment.Service
	Payroll     *payroll.Service
	Leave       *leave.Service
	Attendance  *attendance.Service
	Settings    *settings.Service
	Audit       *audit.Service
	Reports     *reports.Service
	Jobs        *jobs.Service
	Importer    *localstore.Importer
	Idempotency middleware.IdempotencyStore
	Metrics     *metrics.Collector
}

type stores struct {
	auth        auth.StoreAPI
	core        core.StoreAPI
	postings    postings.StoreAPI
	recruitment recruitment.StoreAPI
	payroll     payroll.StoreAPI
	leave       leave.StoreAPI
	attendance  attendance.StoreAPI
	settings    settings.StoreAPI
	audit       audit.StoreAPI
	runs        jobs.RunStore
	idempotency middleware.IdempotencyStore
}

func memoryStores() stores {
	return stores{
		auth:        auth.NewMemoryStore(),
		core:        core.NewMemoryStore(),
		postings:    postings.NewMemoryStore(),
		recruitment: recruitment.NewMemoryStore(),
		payroll:     payroll.NewMemoryStore(),
		leave:       leave.NewMemoryStore(),
		attendance:  attendance.NewMemoryStore(),
		settings:    settings.NewMemoryStore(),
		audit:       audit.NewMemoryStore(),
		runs:        jobs.NewMemoryRunStore(),
		idempotency: middleware.NewMemoryIdempotencyStore(),
	}
}

func postgresStores(pool *pgxpool.Pool) stores {
	return stores{
		auth:        auth.NewStore(pool),
		core:        core.NewStore(pool),
		postings:    postings.NewStore(pool),
		recruitment: recruitment.NewStore(pool),
		payroll:     payroll.NewStore(pool),
		leave:       leave.NewStore(pool),
		attendance:  attendance.NewStore(pool),
		settings:    settings.NewStore(pool),
		audit:       audit.NewStore(pool),
		runs:        jobs.NewPGRunStore(pool),
		idempotency: middleware.NewPGIdempotencyStore(pool),
	}
}

// NewServices wires every domain service. A nil pool selects the in-memory stores.
func NewServices(cfg config.Config, pool *pgxpool.Pool) (*Services, error) {
	st := memoryStores()
	if pool != nil {
		st = postgresStores(pool)
	}

	sealer, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("data encryption key: %w", err)
	}

	svc := &Services{Metrics: metrics.New(), Idempotency: st.idempotency}
	svc.Auth = auth.NewService(st.auth, cfg.JWTSecret, cfg.TokenTTL)
	svc.Auth.SetSealer(sealer)
	svc.Core = core.NewService(st.core)
	svc.Settings = settings.NewService(st.settings)
	svc.Audit = audit.New(st.audit)

	svc.Postings = postings.NewService(st.postings)
	svc.Recruitment = recruitment.NewService(st.recruitment, svc.Postings)
	svc.Postings.SetApplicantCounter(svc.Recruitment)

	svc.Payroll = payroll.NewService(st.payroll, svc.Core, svc.Settings, sealer, cfg.PayslipDir)
	svc.Leave = leave.NewService(st.leave, svc.Core, svc.Settings)
	svc.Attendance = attendance.NewService(st.attendance, svc.Core)
	svc.Core.AddEmployeeRecords(svc.Payroll)
	svc.Core.AddEmployeeRecords(svc.Leave)
	svc.Core.AddEmployeeRecords(svc.Attendance)

	svc.Jobs = jobs.New(st.runs, cfg)
	svc.Jobs.Metrics = svc.Metrics
	svc.Jobs.Leave = svc.Leave
	svc.Jobs.Payroll = svc.Payroll
	svc.Leave.SetNotifier(jobs.LeaveMailer{Jobs: svc.Jobs, Mailer: email.New(cfg), Employees: svc.Core})

	svc.Reports = reports.NewService(reports.Sources{
		Directory:  svc.Core,
		Postings:   svc.Postings,
		Applicants: svc.Recruitment,
		Leave:      svc.Leave,
		Attendance: svc.Attendance,
		Payroll:    svc.Payroll,
	})
	svc.Importer = localstore.NewImporter(svc.Attendance, svc.Leave, svc.Postings)
	return svc, nil
}
