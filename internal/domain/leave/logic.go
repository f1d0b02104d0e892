package leave

import "time"

// CalculateDays returns inclusive day count between start and end.
func CalculateDays(start, end time.Time) (float64, error) {
	start, end = dateOnly(start), dateOnly(end)
	if end.Before(start) {
		return 0, ErrInvalidDateRange
	}
	return end.Sub(start).Hours()/24 + 1, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
