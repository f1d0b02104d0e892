package localstore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"staffhive/internal/domain/attendance"
	"staffhive/internal/domain/core"
	"staffhive/internal/domain/leave"
	"staffhive/internal/domain/postings"
	"staffhive/internal/domain/settings"
)

func TestImportSkipsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	coreSvc := core.NewService(core.NewMemoryStore())
	emp, err := coreSvc.CreateEmployee(ctx, core.Employee{Name: "Ada", Email: "ada@example.com", Department: "Eng"})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	attSvc := attendance.NewService(attendance.NewMemoryStore(), coreSvc)
	leaveSvc := leave.NewService(leave.NewMemoryStore(), coreSvc, settings.NewService(settings.NewMemoryStore()))
	jobs := postings.NewService(postings.NewMemoryStore())
	im := NewImporter(attSvc, leaveSvc, jobs)

	export := `{
  "attendance_2024-02-15": "[{\"employeeId\":\"` + emp.ID + `\",\"checkInTime\":\"2024-02-15T09:00:00Z\",\"checkOutTime\":\"2024-02-15T17:30:00Z\",\"location\":\"HQ\"},{\"employeeId\":\"` + emp.ID + `\",\"checkInTime\":\"2024-02-15T10:00:00Z\"},{\"name\":\"ghost\"}]",
  "attendance_not-a-date": "[]",
  "leaveRequests": [
    {"employeeId":"` + emp.ID + `","leaveType":"annual","startDate":"2024-02-15","endDate":"2024-02-19","status":"approved","approver":"hr"},
    {"employeeId":"` + emp.ID + `","leaveType":"sick","startDate":"2024-03-10","endDate":"2024-03-01"},
    {"employeeId":"` + emp.ID + `","leaveType":"personal","startDate":"2024-04-01","endDate":"2024-04-30"}
  ],
  "adminJobs": "[{\"title\":\"Designer\",\"status\":\"inactive\",\"requirements\":[\"Figma\"]},{\"title\":\"\"}]",
  "theme": "\"dark\""
}`

	res, err := im.Import(ctx, strings.NewReader(export))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Attendance != 1 || res.Leave != 1 || res.Jobs != 1 {
		t.Fatalf("unexpected counts %+v", res)
	}
	// duplicate shift, missing check-in, bad date key, reversed leave range,
	// oversized personal leave, untitled job, non-array value
	if len(res.Skipped) != 7 {
		t.Fatalf("expected 7 skipped records, got %+v", res.Skipped)
	}

	balances, err := leaveSvc.Balances(ctx, emp.ID, 2024)
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	for _, b := range balances {
		if b.LeaveType == settings.LeaveAnnual && (b.Used != 5 || b.Pending != 0) {
			t.Fatalf("unexpected annual balance %+v", b)
		}
	}

	list, err := jobs.ListPostings(ctx, postings.StatusInactive)
	if err != nil || len(list) != 1 || list[0].Title != "Designer" {
		t.Fatalf("unexpected postings %+v %v", list, err)
	}
}

func TestImportRejectsMalformedExport(t *testing.T) {
	im := NewImporter(nil, nil, nil)
	if _, err := im.Import(context.Background(), strings.NewReader("[1,2]")); err == nil {
		t.Fatalf("expected malformed export error")
	}
}

type failingApprovals struct {
	*leave.Service
}

func (f failingApprovals) Approve(ctx context.Context, requestID, approver string) (leave.Request, error) {
	return leave.Request{}, errors.New("approval store unavailable")
}

func TestImportReleasesHoldWhenDecisionFails(t *testing.T) {
	ctx := context.Background()
	coreSvc := core.NewService(core.NewMemoryStore())
	emp, err := coreSvc.CreateEmployee(ctx, core.Employee{Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	leaveSvc := leave.NewService(leave.NewMemoryStore(), coreSvc, settings.NewService(settings.NewMemoryStore()))
	im := NewImporter(nil, failingApprovals{leaveSvc}, nil)

	export := `{"leaveRequests": [
    {"employeeId":"` + emp.ID + `","leaveType":"annual","startDate":"2024-02-15","endDate":"2024-02-16","status":"approved","approver":"hr"}
  ]}`
	res, err := im.Import(ctx, strings.NewReader(export))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Leave != 0 || len(res.Skipped) != 1 {
		t.Fatalf("expected the request to be skipped, got %+v", res)
	}

	balances, err := leaveSvc.Balances(ctx, emp.ID, 2024)
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	for _, b := range balances {
		if b.Pending != 0 || b.Used != 0 {
			t.Fatalf("expected no hold left behind, got %+v", b)
		}
	}
	pending, err := leaveSvc.ListRequests(ctx, leave.Filter{EmployeeID: emp.ID, Status: leave.StatusPending})
	if err != nil || len(pending) != 0 {
		t.Fatalf("expected no pending requests, got %+v %v", pending, err)
	}
}
