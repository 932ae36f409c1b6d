package domain

import "time"

// DayLayout is the storage and wire format of a calendar day.
const DayLayout = "2006-01-02"

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a YYYY-MM-DD day.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayLayout, s)
}

// PrevDay returns the calendar day before day. The input must be a valid
// YYYY-MM-DD string.
func PrevDay(day string) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return DayOf(t.AddDate(0, 0, -1)), nil
}
