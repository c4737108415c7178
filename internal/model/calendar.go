package model

import "time"

// CalendarStart is the first month of every Calendar.
var CalendarStart = Month{Year: 2007, Month: time.January}

// Calendar is the ordered, gap-free sequence of months shared by every indicator of a run.
// It is immutable once built.
type Calendar struct {
	months []Month
}

// NewCalendar returns the months from CalendarStart through the month containing now, inclusive.
func NewCalendar(now time.Time) Calendar {
	return NewCalendarRange(CalendarStart, MonthOf(now))
}

// NewCalendarRange returns the months from first through last, inclusive.
// The calendar is empty when last is before first.
func NewCalendarRange(first, last Month) Calendar {
	var months []Month
	for m := first; !m.After(last); m = m.AddMonths(1) {
		months = append(months, m)
	}
	return Calendar{months: months}
}

// Len returns the number of months.
func (c Calendar) Len() int { return len(c.months) }

// At returns the i-th month.
func (c Calendar) At(i int) Month { return c.months[i] }

// First returns the earliest month, or the zero Month for an empty calendar.
func (c Calendar) First() Month {
	if len(c.months) == 0 {
		return Month{}
	}
	return c.months[0]
}

// Last returns the latest month, or the zero Month for an empty calendar.
func (c Calendar) Last() Month {
	if len(c.months) == 0 {
		return Month{}
	}
	return c.months[len(c.months)-1]
}

// Months returns a copy of the months.
func (c Calendar) Months() []Month {
	out := make([]Month, len(c.months))
	copy(out, c.months)
	return out
}

// Index returns the position of m in the calendar.
func (c Calendar) Index(m Month) (int, bool) {
	if len(c.months) == 0 || m.Before(c.First()) || m.After(c.Last()) {
		return 0, false
	}
	i := (m.Year-c.First().Year)*12 + int(m.Month) - int(c.First().Month)
	return i, true
}
