package model

import (
	"fmt"
	"time"
)

// Month identifies a calendar month. Days and times never take part in comparisons.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth returns a normalized Month, so NewMonth(2007, 13) is January 2008.
func NewMonth(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// MonthOf returns the month containing t, in t's own location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// AddMonths shifts m by n months, n may be negative.
func (m Month) AddMonths(n int) Month {
	return NewMonth(m.Year, m.Month+time.Month(n))
}

// Before reports whether m is strictly earlier than x.
func (m Month) Before(x Month) bool {
	if m.Year != x.Year {
		return m.Year < x.Year
	}
	return m.Month < x.Month
}

// After reports whether m is strictly later than x.
func (m Month) After(x Month) bool { return x.Before(m) }

// IsZero reports whether m is the zero value.
func (m Month) IsZero() bool { return m.Year == 0 && m.Month == 0 }

// Time returns the first day of the month at midnight UTC.
func (m Month) Time() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Label formats the month as "MM/YYYY".
func (m Month) Label() string { return fmt.Sprintf("%02d/%04d", int(m.Month), m.Year) }

// String formats the month as "YYYY-MM".
func (m Month) String() string { return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)) }
