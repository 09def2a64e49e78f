// internal/pkg/timeutil/timeutil.go
package timeutil

import "time"

// TruncateToSecond drops sub-second precision and normalizes to UTC.
// All persisted timestamps go through this so in-process comparisons match
// values round-tripped from the database.
func TruncateToSecond(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// AddMonths adds calendar months, clamping to the last day of the target
// month instead of letting the date spill over (2024-01-31 + 1 month is
// 2024-02-29, not 2024-03-02 as time.AddDate would produce).
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	m := int(month) + months
	// Normalize month into [1,12], carrying into the year.
	year += (m - 1) / 12
	m = (m-1)%12 + 1
	if m < 1 {
		m += 12
		year--
	}

	if last := daysIn(year, time.Month(m)); day > last {
		day = last
	}
	return time.Date(year, time.Month(m), day, hour, min, sec, t.Nanosecond(), t.Location())
}

// AddYears adds calendar years with the same end-of-month clamping
// (2024-02-29 + 1 year is 2025-02-28).
func AddYears(t time.Time, years int) time.Time {
	return AddMonths(t, years*12)
}

func daysIn(year int, month time.Month) int {
	// First day of the following month minus one day.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
