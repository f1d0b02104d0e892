package reports

import (
	"context"
	"testing"
	"time"

	"staffhive/internal/domain/attendance"
	"staffhive/internal/domain/core"
	"staffhive/internal/domain/leave"
	"staffhive/internal/domain/payroll"
	"staffhive/internal/domain/postings"
	"staffhive/internal/domain/recruitment"
	"staffhive/internal/domain/settings"
)

func TestOverview(t *testing.T) {
	ctx := context.Background()
	coreSvc := core.NewService(core.NewMemoryStore())
	settingsSvc := settings.NewService(settings.NewMemoryStore())

	salary := int64(20000000)
	ada, err := coreSvc.CreateEmployee(ctx, core.Employee{Name: "Ada", Email: "ada@example.com", Salary: &salary})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	bola, err := coreSvc.CreateEmployee(ctx, core.Employee{Name: "Bola", Email: "bola@example.com"})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	if _, err := coreSvc.SetEmployeeStatus(ctx, bola.ID, core.EmployeeStatusInactive); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	jobs := postings.NewService(postings.NewMemoryStore())
	if _, err := jobs.CreatePosting(ctx, postings.Posting{Title: "Accountant"}); err != nil {
		t.Fatalf("create posting: %v", err)
	}
	applicants := recruitment.NewService(recruitment.NewMemoryStore(), jobs)
	if _, err := applicants.AddApplicant(ctx, recruitment.Applicant{Name: "Chi", Email: "chi@example.com"}); err != nil {
		t.Fatalf("add applicant: %v", err)
	}

	leaveSvc := leave.NewService(leave.NewMemoryStore(), coreSvc, settingsSvc)
	_, err = leaveSvc.Submit(ctx, leave.SubmitInput{
		EmployeeID: ada.ID,
		LeaveType:  settings.LeaveAnnual,
		StartDate:  time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("submit leave: %v", err)
	}

	payrollSvc := payroll.NewService(payroll.NewMemoryStore(), coreSvc, settingsSvc, nil, "")
	if _, err := payrollSvc.Generate(ctx, ada.ID, "2024-03", 0); err != nil {
		t.Fatalf("generate payroll: %v", err)
	}

	svc := NewService(Sources{
		Directory:  coreSvc,
		Postings:   jobs,
		Applicants: applicants,
		Leave:      leaveSvc,
		Attendance: attendance.NewService(attendance.NewMemoryStore(), coreSvc),
		Payroll:    payrollSvc,
	})

	got, err := svc.Overview(ctx, "2024-03-04", "2024-03")
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if got.Employees != (EmployeeCounts{Total: 2, Active: 1, Inactive: 1}) {
		t.Fatalf("unexpected employee counts %+v", got.Employees)
	}
	if got.ActivePostings != 1 || got.PendingLeave != 1 {
		t.Fatalf("unexpected overview %+v", got)
	}
	if got.ApplicantsByStage[recruitment.StageApplied] != 1 {
		t.Fatalf("unexpected applicant stages %+v", got.ApplicantsByStage)
	}
	if got.Attendance.Total != 1 || got.Attendance.NotStarted != 1 {
		t.Fatalf("unexpected attendance %+v", got.Attendance)
	}
	if got.Payroll.EmployeeCount != 1 || got.Payroll.TotalNet != 18900000 {
		t.Fatalf("unexpected payroll %+v", got.Payroll)
	}
}
