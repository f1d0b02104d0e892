package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"staffhive/internal/domain/auth"
	"staffhive/internal/domain/core"
	"staffhive/internal/domain/postings"
	"staffhive/internal/domain/recruitment"
	"staffhive/internal/platform/config"
)

// Seed ensures the bootstrap HR account exists and, when demo is set, loads a
// small sample directory into an empty store. Both steps are safe to repeat.
func Seed(ctx context.Context, cfg config.Config, svc *Services, demo bool) error {
	if err := ensureAdminUser(ctx, svc.Auth, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}
	if !demo {
		return nil
	}
	return seedDemo(ctx, cfg, svc)
}

func ensureAdminUser(ctx context.Context, users *auth.Service, email, password string) error {
	if email == "" || password == "" {
		slog.Info("admin seed skipped", "reason", "SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set")
		return nil
	}
	_, err := users.FindUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, auth.ErrUserNotFound) {
		return err
	}
	if _, err := users.CreateUser(ctx, email, password, auth.RoleHR, ""); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	slog.Info("seeded admin user", "email", email)
	return nil
}

type demoEmployee struct {
	name       string
	email      string
	position   string
	department string
	salary     int64
	role       string
}

var demoEmployees = []demoEmployee{
	{"Adaeze Okafor", "adaeze.okafor@staffhive.local", "HR Lead", "People", 65000000, auth.RoleHR},
	{"Tunde Bakare", "tunde.bakare@staffhive.local", "Engineering Manager", "Engineering", 90000000, auth.RoleManager},
	{"Chioma Eze", "chioma.eze@staffhive.local", "Backend Engineer", "Engineering", 55000000, auth.RoleEmployee},
	{"Ibrahim Musa", "ibrahim.musa@staffhive.local", "Accountant", "Finance", 48000000, auth.RoleEmployee},
}

func seedDemo(ctx context.Context, cfg config.Config, svc *Services) error {
	companies, err := svc.Core.ListCompanies(ctx)
	if err != nil {
		return err
	}
	if len(companies) > 0 {
		return nil
	}

	company, err := svc.Core.RegisterCompany(ctx, core.Company{
		Name:               "Staff Hive Demo Ltd",
		BusinessType:       "Limited Liability Company",
		RegistrationNumber: "RC-100200",
		TaxID:              "TIN-0012345",
		Industry:           "Technology",
		Address:            core.Address{Street: "12 Admiralty Way", City: "Lagos", State: "Lagos", Country: "Nigeria"},
		ContactEmail:       "hello@staffhive.local",
	})
	if err != nil {
		return fmt.Errorf("seed company: %w", err)
	}

	joined := time.Now().UTC().AddDate(-1, 0, 0).Truncate(24 * time.Hour)
	for _, d := range demoEmployees {
		salary := d.salary
		emp, err := svc.Core.CreateEmployee(ctx, core.Employee{
			Name:       d.name,
			Email:      d.email,
			Position:   d.position,
			Department: d.department,
			CompanyID:  company.ID,
			Salary:     &salary,
			JoinDate:   &joined,
		})
		if err != nil {
			return fmt.Errorf("seed employee %s: %w", d.email, err)
		}
		if cfg.SeedAdminPassword == "" {
			continue
		}
		if _, err := svc.Auth.CreateUser(ctx, d.email, cfg.SeedAdminPassword, d.role, emp.ID); err != nil && !errors.Is(err, auth.ErrDuplicateUser) {
			return fmt.Errorf("seed user %s: %w", d.email, err)
		}
	}

	posting, err := svc.Postings.CreatePosting(ctx, postings.Posting{
		Title:        "Frontend Engineer",
		Company:      company.Name,
		Location:     "Lagos (hybrid)",
		Type:         "full-time",
		Salary:       "₦600,000 - ₦800,000 monthly",
		Description:  "Build the Staff Hive web client.",
		Requirements: []string{"3+ years with TypeScript", "Experience with design systems"},
		Benefits:     []string{"HMO", "Pension", "Learning budget"},
	})
	if err != nil {
		return fmt.Errorf("seed posting: %w", err)
	}
	if _, err := svc.Postings.CreatePosting(ctx, postings.Posting{
		Title:    "Payroll Intern",
		Company:  company.Name,
		Location: "Abuja",
		Type:     "internship",
	}); err != nil {
		return fmt.Errorf("seed posting: %w", err)
	}

	applicants := []recruitment.Applicant{
		{Name: "Kemi Adeyemi", Email: "kemi.adeyemi@example.com", PostingID: posting.ID},
		{Name: "Emeka Nwosu", Email: "emeka.nwosu@example.com", PostingID: posting.ID},
	}
	for _, a := range applicants {
		if _, err := svc.Recruitment.AddApplicant(ctx, a); err != nil {
			return fmt.Errorf("seed applicant %s: %w", a.Email, err)
		}
	}
	slog.Info("seeded demo data", "company", company.Name, "employees", len(demoEmployees))
	return nil
}
