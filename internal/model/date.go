package model

import (
	"fmt"
	"time"
)

// Date identifies a civil calendar day with no timezone attached.
// The same Date names a different absolute window in every display
// timezone; StartIn resolves it.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the civil day that t falls on, in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses the ISO form "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// StartIn returns the instant the civil day begins in loc. On DST
// transition days where local midnight does not exist, time.Date
// normalization shifts to the first valid instant, which is exactly the
// moment the day starts on a wall clock in that zone.
func (d Date) StartIn(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Next returns the following civil day, rolling months and years.
func (d Date) Next() Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+1, 0, 0, 0, 0, time.UTC))
}

// Prev returns the preceding civil day.
func (d Date) Prev() Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day-1, 0, 0, 0, 0, time.UTC))
}

// String renders the ISO form "2006-01-02".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}
