package reports

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"staffhive/internal/domain/attendance"
	"staffhive/internal/domain/core"
	"staffhive/internal/domain/leave"
	"staffhive/internal/domain/payroll"
	"staffhive/internal/domain/postings"
)

type Directory interface {
	ListEmployees(ctx context.Context, filter core.EmployeeFilter) ([]core.Employee, error)
	ListCompanies(ctx context.Context) ([]core.Company, error)
}

type PostingSource interface {
	ListPostings(ctx context.Context, status string) ([]postings.Posting, error)
}

type ApplicantStats interface {
	CountByStage(ctx context.Context) (map[string]int, error)
}

type LeaveSource interface {
	ListRequests(ctx context.Context, filter leave.Filter) ([]leave.Request, error)
}

type AttendanceSource interface {
	DailyStats(ctx context.Context, date string) (attendance.DailyStats, error)
}

type PayrollSource interface {
	PeriodSummary(ctx context.Context, period string) (payroll.PeriodSummary, error)
}

type Sources struct {
	Directory  Directory
	Postings   PostingSource
	Applicants ApplicantStats
	Leave      LeaveSource
	Attendance AttendanceSource
	Payroll    PayrollSource
}

type EmployeeCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

type Overview struct {
	Date              string                `json:"date"`
	Period            string                `json:"period"`
	Employees         EmployeeCounts        `json:"employees"`
	Companies         int                   `json:"companies"`
	ActivePostings    int                   `json:"activePostings"`
	ApplicantsByStage map[string]int        `json:"applicantsByStage"`
	PendingLeave      int                   `json:"pendingLeave"`
	Attendance        attendance.DailyStats `json:"attendance"`
	Payroll           payroll.PeriodSummary `json:"payroll"`
}

type Service struct {
	src Sources
}

func NewService(src Sources) *Service {
	return &Service{src: src}
}

// Overview gathers dashboard figures for the given attendance date and payroll period.
func (s *Service) Overview(ctx context.Context, date, period string) (Overview, error) {
	out := Overview{Date: date, Period: period}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		employees, err := s.src.Directory.ListEmployees(ctx, core.EmployeeFilter{})
		if err != nil {
			return fmt.Errorf("employees: %w", err)
		}
		out.Employees = countEmployees(employees)
		return nil
	})
	g.Go(func() error {
		companies, err := s.src.Directory.ListCompanies(ctx)
		if err != nil {
			return fmt.Errorf("companies: %w", err)
		}
		out.Companies = len(companies)
		return nil
	})
	g.Go(func() error {
		active, err := s.src.Postings.ListPostings(ctx, postings.StatusActive)
		if err != nil {
			return fmt.Errorf("postings: %w", err)
		}
		out.ActivePostings = len(active)
		return nil
	})
	g.Go(func() error {
		counts, err := s.src.Applicants.CountByStage(ctx)
		if err != nil {
			return fmt.Errorf("applicants: %w", err)
		}
		out.ApplicantsByStage = counts
		return nil
	})
	g.Go(func() error {
		pending, err := s.src.Leave.ListRequests(ctx, leave.Filter{Status: leave.StatusPending})
		if err != nil {
			return fmt.Errorf("leave: %w", err)
		}
		out.PendingLeave = len(pending)
		return nil
	})
	g.Go(func() error {
		stats, err := s.src.Attendance.DailyStats(ctx, date)
		if err != nil {
			return fmt.Errorf("attendance: %w", err)
		}
		out.Attendance = stats
		return nil
	})
	g.Go(func() error {
		summary, err := s.src.Payroll.PeriodSummary(ctx, period)
		if err != nil {
			return fmt.Errorf("payroll: %w", err)
		}
		out.Payroll = summary
		return nil
	})

	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

func countEmployees(employees []core.Employee) EmployeeCounts {
	counts := EmployeeCounts{Total: len(employees)}
	for _, emp := range employees {
		if emp.Status == core.EmployeeStatusActive {
			counts.Active++
		} else {
			counts.Inactive++
		}
	}
	return counts
}
