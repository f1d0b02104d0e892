package attendance

import (
	"errors"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "0h 0m"},
		{8*time.Hour + 30*time.Minute, "8h 30m"},
		{45*time.Minute + 59*time.Second, "0h 45m"},
		{26 * time.Hour, "26h 0m"},
		{-time.Hour, "0h 0m"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestClockDuration(t *testing.T) {
	got, err := ClockDuration("09:00", "17:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "8h 30m" {
		t.Fatalf("expected 8h 30m, got %s", got)
	}

	if _, err := ClockDuration("17:30", "09:00"); !errors.Is(err, ErrNegativeDuration) {
		t.Fatalf("expected negative duration, got %v", err)
	}
	if _, err := ClockDuration("9am", "17:00"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestStatusAndLabel(t *testing.T) {
	in := time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC)
	out := in.Add(8*time.Hour + 30*time.Minute)

	if StatusOf(nil, nil) != StatusNotStarted || DurationLabel(nil, nil) != "-" {
		t.Fatal("expected not-started with dash label")
	}
	if StatusOf(&in, nil) != StatusWorking || DurationLabel(&in, nil) != "Working..." {
		t.Fatal("expected working label")
	}
	if StatusOf(&in, &out) != StatusCompleted || DurationLabel(&in, &out) != "8h 30m" {
		t.Fatal("expected completed with duration")
	}
}

func TestSummarize(t *testing.T) {
	in := time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC)
	out := in.Add(8 * time.Hour)
	records := []Record{
		{EmployeeID: "a", CheckIn: in},
		{EmployeeID: "b", CheckIn: in, CheckOut: &out},
		{EmployeeID: "ghost", CheckIn: in},
	}

	stats := Summarize("2024-02-15", []string{"a", "b", "c", "d"}, records)
	want := DailyStats{Date: "2024-02-15", Total: 4, Present: 2, Working: 1, Completed: 1, NotStarted: 2}
	if stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}
	if stats.Present+stats.NotStarted != stats.Total {
		t.Fatal("present and not-started must cover the roster")
	}
}
