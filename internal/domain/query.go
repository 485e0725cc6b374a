package domain

import "time"

// DateLayout is the YYYY-MM-DD format used for the start query parameter
// and for flight dates.
const DateLayout = "2006-01-02"

// DefaultOrigin is used by GET /api/data when no origin is supplied.
const DefaultOrigin = "SYD"

// Selection is what the dashboard asks the insights API for: the origin and
// destination typed by the user, plus the date of the query.
// Values are passed through as-is; empty strings are legal.
type Selection struct {
	Origin      string
	Destination string
	// Date is always today's date in YYYY-MM-DD form, computed at call time.
	Date string
}

// Query is the validated server-side form of an insights request.
type Query struct {
	Origin      string
	Destination string
	Start       time.Time
}

// Day returns the start date in YYYY-MM-DD form.
func (q Query) Day() string {
	return q.Start.Format(DateLayout)
}
