package utils

import "time"

// DayBounds returns the [midnight, next midnight) window containing t, in t's
// location. Used for the one-mood-entry-per-day check.
func DayBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// PeriodDays maps an analytics period name to a day count. Unknown periods
// fall back to a month.
func PeriodDays(period string) int {
	switch period {
	case "week":
		return 7
	case "month":
		return 30
	case "quarter":
		return 90
	default:
		return 30
	}
}
