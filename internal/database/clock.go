package database

import "time"

const (
	cycleLayout = "2006-01-02 15:04:05"
	dateLayout  = "2006-01-02"
)

// FormatCycle renders a cycle timestamp in the sortable storage format.
func FormatCycle(t time.Time) string {
	return t.Format(cycleLayout)
}

// CycleDate extracts the calendar date (YYYY-MM-DD) from a cycle timestamp.
func CycleDate(cycleTS string) string {
	if len(cycleTS) >= len(dateLayout) {
		return cycleTS[:len(dateLayout)]
	}
	return cycleTS
}

// Today returns today's date as YYYY-MM-DD in the given location.
func Today(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc).Format(dateLayout)
}
