package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// DefaultPayRule pays on the last weekday of each month.
const DefaultPayRule = "FREQ=MONTHLY;BYDAY=MO,TU,WE,TH,FR;BYSETPOS=-1"

type PaySchedule struct {
	rule *rrule.RRule
}

func NewPaySchedule(rule string, anchor time.Time) (*PaySchedule, error) {
	if rule == "" {
		rule = DefaultPayRule
	}
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("parse pay rule: %w", err)
	}
	opt.Dtstart = anchor
	rr, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("build pay rule: %w", err)
	}
	return &PaySchedule{rule: rr}, nil
}

// NextPayDates returns up to n pay dates strictly after from.
func (p *PaySchedule) NextPayDates(from time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	cursor := from
	for len(out) < n {
		next := p.rule.After(cursor, false)
		if next.IsZero() {
			break
		}
		out = append(out, next)
		cursor = next
	}
	return out
}

// UpcomingPayDates resolves the configured pay rule and lists the next n pay
// dates after from.
func (s *Service) UpcomingPayDates(ctx context.Context, from time.Time, n int) ([]time.Time, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	anchor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
	schedule, err := NewPaySchedule(cfg.PayRule, anchor)
	if err != nil {
		return nil, err
	}
	return schedule.NextPayDates(from, n), nil
}
