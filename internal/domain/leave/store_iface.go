package leave

import (
	"context"
	"time"
)

type StoreAPI interface {
	// SubmitRequest stores req and reserves its days against the balance for
	// req.Year() in one atomic step, provisioning the balance with allocated
	// days when it does not exist yet.
	SubmitRequest(ctx context.Context, req Request, allocated float64) error
	// DecideRequest moves a pending request to status and applies the matching
	// balance change atomically.
	DecideRequest(ctx context.Context, requestID, status, approver string, decidedAt time.Time) (Request, error)
	GetRequest(ctx context.Context, requestID string) (Request, error)
	ListRequests(ctx context.Context, filter Filter) ([]Request, error)

	EnsureBalance(ctx context.Context, employeeID, leaveType string, year int, allocated float64) (bool, error)
	ListBalances(ctx context.Context, employeeID string, year int) ([]Balance, error)
	SetAllocation(ctx context.Context, employeeID, leaveType string, year int, allocated float64) (Balance, error)
}
