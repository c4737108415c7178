package calculator

import "IndexTracker/internal/model"

// PinnedRate replaces the rate of the latest calendar month, whose reading is still accruing.
// Its monthly factor is exactly 1. This applies to SELIC too: the Receita Federal
// convention of adding 1 % for the month of payment is deliberately not applied,
// so the current month reads 0 in every rate column.
const PinnedRate = 0.0

// AlignRates places a monthly-rate series on the calendar. Months without a rate get 0.
func AlignRates(cal model.Calendar, s model.RawSeries) []float64 {
	out := make([]float64, cal.Len())
	for i := 0; i < cal.Len(); i++ {
		if v, ok := s.Lookup(cal.At(i)); ok {
			out[i] = v
		}
	}
	return out
}

// PinLatest overwrites the last rate with PinnedRate in place.
func PinLatest(rates []float64) {
	if len(rates) > 0 {
		rates[len(rates)-1] = PinnedRate
	}
}

// ForwardSum returns, for every month, the sum of all rates strictly after it.
// The last month is always 0.
func ForwardSum(rates []float64) []float64 {
	out := make([]float64, len(rates))
	sum := 0.0
	for i := len(rates) - 1; i >= 0; i-- {
		out[i] = sum
		sum += rates[i]
	}
	return out
}

// ReverseCompound returns, for every month, the total percentage earned by compounding
// each rate from that month through the end of the series.
func ReverseCompound(rates []float64) []float64 {
	out := make([]float64, len(rates))
	factor := 1.0
	for i := len(rates) - 1; i >= 0; i-- {
		factor *= 1 + rates[i]/100
		out[i] = (factor - 1) * 100
	}
	return out
}

// AccumulateRate aligns, pins and accumulates a monthly-rate series with the given method.
func AccumulateRate(cal model.Calendar, s model.RawSeries, method model.RateMethod) ([]float64, error) {
	rates := AlignRates(cal, s)
	PinLatest(rates)

	switch method {
	case model.ForwardSumRemainder:
		return ForwardSum(rates), nil
	case model.ReverseCompounding:
		return ReverseCompound(rates), nil
	default:
		return nil, ErrUnknownMethod
	}
}
