package helpers

import "time"

const cardTimeLayout = "02.01.2006 15:04"

// FormatTimestamp renders t as dd.mm.yyyy HH:MM in loc (UTC when nil).
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(cardTimeLayout)
}
