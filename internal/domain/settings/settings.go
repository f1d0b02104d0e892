package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

const (
	LeaveAnnual   = "annual"
	LeaveSick     = "sick"
	LeavePersonal = "personal"

	basisPointsMax = 10000
)

var (
	ErrInvalidRate       = errors.New("rate must be between 0 and 10000 basis points")
	ErrInvalidAllocation = errors.New("leave allocation must not be negative")
	ErrInvalidCurrency   = errors.New("currency must be a three letter code")
	ErrInvalidPayRule    = errors.New("pay rule must be an RFC 5545 recurrence rule")
)

type PayrollRates struct {
	BonusBP   int64 `json:"bonusBp"`
	TaxBP     int64 `json:"taxBp"`
	PensionBP int64 `json:"pensionBp"`
}

type Settings struct {
	CompanyName      string             `json:"companyName"`
	Currency         string             `json:"currency"`
	Payroll          PayrollRates       `json:"payroll"`
	LeaveAllocations map[string]float64 `json:"leaveAllocations"`
	// PayRule is an RRULE for pay dates; empty means the last weekday of the month.
	PayRule          string             `json:"payRule,omitempty"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// Defaults mirror the dashboard's stock configuration: 10% bonus, 7.5% tax,
// 8% pension and 25/15/7 days of annual/sick/personal leave.
func Defaults() Settings {
	return Settings{
		CompanyName: "Staff Hive",
		Currency:    "NGN",
		Payroll:     PayrollRates{BonusBP: 1000, TaxBP: 750, PensionBP: 800},
		LeaveAllocations: map[string]float64{
			LeaveAnnual:   25,
			LeaveSick:     15,
			LeavePersonal: 7,
		},
	}
}

func (s Settings) Validate() error {
	for _, bp := range []int64{s.Payroll.BonusBP, s.Payroll.TaxBP, s.Payroll.PensionBP} {
		if bp < 0 || bp > basisPointsMax {
			return ErrInvalidRate
		}
	}
	for _, days := range s.LeaveAllocations {
		if days < 0 {
			return ErrInvalidAllocation
		}
	}
	if len(s.Currency) != 3 {
		return ErrInvalidCurrency
	}
	if s.PayRule != "" {
		if _, err := rrule.StrToROption(s.PayRule); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayRule, err)
		}
	}
	return nil
}

// Allocation returns the yearly allocation for a leave type and whether the
// type is known.
func (s Settings) Allocation(leaveType string) (float64, bool) {
	days, ok := s.LeaveAllocations[leaveType]
	return days, ok
}

type StoreAPI interface {
	Load(ctx context.Context) (Settings, bool, error)
	Save(ctx context.Context, settings Settings) error
}

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

// Get returns the stored settings, falling back to Defaults when nothing has
// been saved yet.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	stored, ok, err := s.store.Load(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		return Defaults(), nil
	}
	defaults := Defaults()
	if stored.LeaveAllocations == nil {
		stored.LeaveAllocations = defaults.LeaveAllocations
	}
	if stored.Currency == "" {
		stored.Currency = defaults.Currency
	}
	return stored, nil
}

func (s *Service) Update(ctx context.Context, next Settings) (Settings, error) {
	next.Currency = strings.ToUpper(strings.TrimSpace(next.Currency))
	if next.LeaveAllocations == nil {
		current, err := s.Get(ctx)
		if err != nil {
			return Settings{}, err
		}
		next.LeaveAllocations = current.LeaveAllocations
	}
	if err := next.Validate(); err != nil {
		return Settings{}, err
	}
	next.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, next); err != nil {
		return Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return next, nil
}
