package calculator

import "IndexTracker/internal/model"

// AccumulateLevel turns an index-number series into accumulated percentages.
// For each calendar month m the base is the index of m-1 and the target is the
// latest index of the series: (final/base - 1) * 100. A missing or non-positive
// base yields 0.
func AccumulateLevel(cal model.Calendar, s model.RawSeries) []float64 {
	out := make([]float64, cal.Len())
	last, ok := s.Last()
	if !ok {
		return out
	}
	final := last.Value

	for i := 0; i < cal.Len(); i++ {
		// index numbers lag one month behind the period they measure
		base, ok := s.Lookup(cal.At(i).AddMonths(-1))
		if !ok || base <= 0 {
			continue
		}
		out[i] = (final/base - 1) * 100
	}
	return out
}
