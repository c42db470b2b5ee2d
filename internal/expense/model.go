package expense

import "time"

// Expense is a single ledger record. OwnerID is set once at creation and is
// never writable afterwards.
type Expense struct {
	ID          string
	OwnerID     string
	AmountCents int64
	Category    string
	Date        time.Time // calendar date, normalized to UTC midnight
	Description string
	CreatedAt   time.Time
}

// Filter restricts listing and aggregation. Zero values mean "no
// restriction"; date bounds are inclusive.
type Filter struct {
	Category string
	From     *time.Time
	To       *time.Time
}

// Changes carries the mutable fields of a partial update. Nil fields retain
// their prior value.
type Changes struct {
	AmountCents *int64
	Category    *string
	Date        *time.Time
	Description *string
}

// MonthlyTotal is one aggregation bucket: the summed amount of all matching
// records within a calendar (year, month).
type MonthlyTotal struct {
	Year       int
	Month      int // 1-12
	TotalCents int64
}

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// FormatDate renders a date in the wire format.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// NormalizeDate strips any time-of-day component, keeping the calendar date
// in UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
