package settings

import (
	"context"
	"errors"
	"testing"
)

func TestGetReturnsDefaultsWhenEmpty(t *testing.T) {
	svc := NewService(NewMemoryStore())
	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Payroll.BonusBP != 1000 || got.Payroll.TaxBP != 750 || got.Payroll.PensionBP != 800 {
		t.Fatalf("unexpected rates: %+v", got.Payroll)
	}
	if days, ok := got.Allocation(LeaveAnnual); !ok || days != 25 {
		t.Fatalf("expected 25 annual days, got %v", days)
	}
}

func TestUpdateValidatesRates(t *testing.T) {
	svc := NewService(NewMemoryStore())
	next := Defaults()
	next.Payroll.TaxBP = 10001
	if _, err := svc.Update(context.Background(), next); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("expected invalid rate, got %v", err)
	}

	next = Defaults()
	next.LeaveAllocations[LeaveSick] = -1
	if _, err := svc.Update(context.Background(), next); !errors.Is(err, ErrInvalidAllocation) {
		t.Fatalf("expected invalid allocation, got %v", err)
	}
}

func TestUpdateValidatesPayRule(t *testing.T) {
	svc := NewService(NewMemoryStore())
	next := Defaults()
	next.PayRule = "FREQ=FORTNIGHTLY"
	if _, err := svc.Update(context.Background(), next); !errors.Is(err, ErrInvalidPayRule) {
		t.Fatalf("expected invalid pay rule, got %v", err)
	}

	next.PayRule = "FREQ=MONTHLY;BYMONTHDAY=25"
	if _, err := svc.Update(context.Background(), next); err != nil {
		t.Fatalf("valid rule rejected: %v", err)
	}
}

func TestUpdatePersists(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())
	next := Defaults()
	next.Currency = "usd"
	next.LeaveAllocations = nil
	next.Payroll.BonusBP = 500

	if _, err := svc.Update(ctx, next); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Currency != "USD" || got.Payroll.BonusBP != 500 {
		t.Fatalf("unexpected settings: %+v", got)
	}
	if days, _ := got.Allocation(LeavePersonal); days != 7 {
		t.Fatalf("expected allocations to be kept, got %v", got.LeaveAllocations)
	}
}
