package jobs

import (
	"context"
	"log/slog"

	"staffhive/internal/domain/core"
	"staffhive/internal/domain/leave"
	"staffhive/internal/platform/email"
)

type EmployeeLookup interface {
	GetEmployee(ctx context.Context, employeeID string) (core.Employee, error)
}

// LeaveMailer queues an e-mail to the employee for every decided leave request.
type LeaveMailer struct {
	Jobs      *Service
	Mailer    email.Mailer
	Employees EmployeeLookup
}

func (n LeaveMailer) LeaveDecided(ctx context.Context, req leave.Request) {
	queued := n.Jobs.Enqueue(JobLeaveEmail, func(ctx context.Context) (any, error) {
		emp, err := n.Employees.GetEmployee(ctx, req.EmployeeID)
		if err != nil {
			return nil, err
		}
		msg, err := email.LeaveDecisionMessage(email.LeaveDecision{
			To:        emp.Email,
			Name:      emp.Name,
			LeaveType: req.LeaveType,
			Start:     req.StartDate.Format("2006-01-02"),
			End:       req.EndDate.Format("2006-01-02"),
			Days:      req.Days,
			Status:    req.Status,
			Approver:  req.Approver,
		})
		if err != nil {
			return nil, err
		}
		if err := n.Mailer.Send(ctx, msg); err != nil {
			return nil, err
		}
		return map[string]any{"requestId": req.ID, "to": emp.Email}, nil
	})
	if !queued {
		slog.Warn("leave decision e-mail dropped", "requestId", req.ID)
	}
}
