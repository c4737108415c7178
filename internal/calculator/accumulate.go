package calculator

import (
	"errors"
	"fmt"

	"IndexTracker/internal/model"
)

var (
	// ErrEmptySeries is returned when an indicator has no data to accumulate.
	ErrEmptySeries = errors.New("empty series")
	// ErrUnknownMethod is returned for a rate indicator without a known accumulation method.
	ErrUnknownMethod = errors.New("unknown rate method")
)

// Accumulate computes the accumulated series of one indicator over the calendar.
// It is pure: the same calendar and series always give the same result.
func Accumulate(cal model.Calendar, ind model.Indicator, s model.RawSeries) (model.AccumulatedSeries, error) {
	if s.IsEmpty() {
		return model.AccumulatedSeries{}, fmt.Errorf("accumulate %s: %w", ind.Name, ErrEmptySeries)
	}

	var values []float64
	switch ind.Kind {
	case model.LevelIndex:
		values = AccumulateLevel(cal, s)
	case model.MonthlyRate:
		v, err := AccumulateRate(cal, s, ind.Method)
		if err != nil {
			return model.AccumulatedSeries{}, fmt.Errorf("accumulate %s (%s): %w", ind.Name, ind.Method, err)
		}
		values = v
	default:
		return model.AccumulatedSeries{}, fmt.Errorf("accumulate %s: unsupported kind %s", ind.Name, ind.Kind)
	}
	return model.NewAccumulatedSeries(ind.Name, cal, values)
}
