package handlers

import "time"

// Fixed display layouts for the report views. The exports are
// day-first, so the UI keeps the same convention.
const (
	displayDate     = "02-01-2006"
	displayDateTime = "02-01-2006 15:04"
)

// FormatEventDate formats a possibly-missing record date for the
// drill-down tables; missing dates display as an em-style blank.
func FormatEventDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format(displayDateTime)
}

// FormatDay formats a date for the filter bounds.
func FormatDay(t time.Time) string {
	return t.Format("2006-01-02")
}
