package model

import (
	"fmt"
	"math"
	"sort"
)

// Point is a single monthly observation.
type Point struct {
	Month Month
	Value float64
}

// RawSeries is a monthly series as normalized by a fetcher: ascending, one value per month.
// Gaps are allowed.
type RawSeries struct {
	points []Point
	index  map[Month]int
}

// NewRawSeries sorts points by month and keeps the first value seen for each month.
// Non-finite values are dropped.
func NewRawSeries(points []Point) RawSeries {
	sorted := make([]Point, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		sorted = append(sorted, p)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Month.Before(sorted[j].Month) })

	s := RawSeries{index: make(map[Month]int, len(sorted))}
	for _, p := range sorted {
		if _, dup := s.index[p.Month]; dup {
			continue
		}
		s.index[p.Month] = len(s.points)
		s.points = append(s.points, p)
	}
	return s
}

// Len returns the number of months with a value.
func (s RawSeries) Len() int { return len(s.points) }

// IsEmpty reports whether the series holds no value.
func (s RawSeries) IsEmpty() bool { return len(s.points) == 0 }

// Lookup returns the value recorded for m.
func (s RawSeries) Lookup(m Month) (float64, bool) {
	i, ok := s.index[m]
	if !ok {
		return 0, false
	}
	return s.points[i].Value, true
}

// Last returns the chronologically latest point.
func (s RawSeries) Last() (Point, bool) {
	if len(s.points) == 0 {
		return Point{}, false
	}
	return s.points[len(s.points)-1], true
}

// Points returns a copy of the points in ascending order.
func (s RawSeries) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// AccumulatedSeries holds one accumulated percentage per calendar month.
// Values is aligned with Calendar: Values[i] belongs to Calendar.At(i).
type AccumulatedSeries struct {
	Indicator string
	Calendar  Calendar
	Values    []float64
}

// NewAccumulatedSeries checks that values cover the calendar exactly.
func NewAccumulatedSeries(indicator string, cal Calendar, values []float64) (AccumulatedSeries, error) {
	if len(values) != cal.Len() {
		return AccumulatedSeries{}, fmt.Errorf("%s: %d values for %d calendar months", indicator, len(values), cal.Len())
	}
	return AccumulatedSeries{Indicator: indicator, Calendar: cal, Values: values}, nil
}

// Get returns the accumulated value for m.
func (a AccumulatedSeries) Get(m Month) (float64, bool) {
	i, ok := a.Calendar.Index(m)
	if !ok || i >= len(a.Values) {
		return 0, false
	}
	return a.Values[i], true
}
