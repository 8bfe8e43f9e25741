package attendance

import (
	"time"

	"classtrack/internal/apperr"
)

// NormalizeDay truncates a timestamp to its UTC calendar day, midnight UTC.
// Attendance is a calendar-day concept: two requests for the same school day
// must land on the same key no matter what zone the caller's clock carried,
// so the write path and every read path funnel through this one function.
func NormalizeDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeDayPtr is NormalizeDay with the current instant as default.
func NormalizeDayPtr(t *time.Time) time.Time {
	if t == nil {
		return NormalizeDay(time.Now())
	}
	return NormalizeDay(*t)
}

// MonthRange returns the half-open UTC range [first of month, first of next
// month) plus the number of days in the month.
func MonthRange(year, month int) (from, to time.Time, days int, err error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, 0, apperr.Validation("month must be between 1 and 12")
	}
	from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to = from.AddDate(0, 1, 0)
	days = int(to.Sub(from).Hours() / 24)
	return from, to, days, nil
}
