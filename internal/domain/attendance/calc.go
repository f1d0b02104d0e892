package attendance

import (
	"fmt"
	"time"
)

const (
	StatusNotStarted = "not-started"
	StatusWorking    = "working"
	StatusCompleted  = "completed"

	DateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

func StatusOf(checkIn, checkOut *time.Time) string {
	switch {
	case checkIn == nil:
		return StatusNotStarted
	case checkOut == nil:
		return StatusWorking
	default:
		return StatusCompleted
	}
}

// FormatDuration renders whole hours and minutes, e.g. "8h 30m". Seconds are
// truncated.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int64(d / time.Minute)
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// DurationLabel is the worked-time cell of the daily report.
func DurationLabel(checkIn, checkOut *time.Time) string {
	switch StatusOf(checkIn, checkOut) {
	case StatusNotStarted:
		return "-"
	case StatusWorking:
		return "Working..."
	default:
		return FormatDuration(checkOut.Sub(*checkIn))
	}
}

// ClockDuration formats the span between two same-day "HH:MM" clock times.
func ClockDuration(checkIn, checkOut string) (string, error) {
	in, err := time.Parse(clockLayout, checkIn)
	if err != nil {
		return "", fmt.Errorf("parse check-in %q: %w", checkIn, err)
	}
	out, err := time.Parse(clockLayout, checkOut)
	if err != nil {
		return "", fmt.Errorf("parse check-out %q: %w", checkOut, err)
	}
	if out.Before(in) {
		return "", ErrNegativeDuration
	}
	return FormatDuration(out.Sub(in)), nil
}

type DailyStats struct {
	Date       string `json:"date"`
	Total      int    `json:"total"`
	Present    int    `json:"present"`
	Working    int    `json:"working"`
	Completed  int    `json:"completed"`
	NotStarted int    `json:"notStarted"`
}

// Summarize counts the roster against the day's records. Records for
// employees outside the roster are ignored.
func Summarize(date string, rosterIDs []string, records []Record) DailyStats {
	stats := DailyStats{Date: date, Total: len(rosterIDs)}
	inRoster := make(map[string]struct{}, len(rosterIDs))
	for _, id := range rosterIDs {
		inRoster[id] = struct{}{}
	}
	for _, rec := range records {
		if _, ok := inRoster[rec.EmployeeID]; !ok {
			continue
		}
		switch rec.Status() {
		case StatusWorking:
			stats.Present++
			stats.Working++
		case StatusCompleted:
			stats.Present++
			stats.Completed++
		}
	}
	stats.NotStarted = stats.Total - stats.Present
	return stats
}
