package payroll

import (
	"context"
	"time"
)

type StoreAPI interface {
	CreateRecord(ctx context.Context, record Record) error
	GetRecord(ctx context.Context, recordID string) (Record, error)
	ListRecords(ctx context.Context, filter Filter) ([]Record, error)
	// MarkPaid moves a processed record to paid and fails with ErrInvalidState
	// for any other status.
	MarkPaid(ctx context.Context, recordID string, paidAt time.Time) (Record, error)
}
