package calculator

import (
	"errors"
	"fmt"
	"math"

	"InvestSuggest/internal/model"
)

// TradingDaysPerYear converts a point count into elapsed years for CAGR.
// Elapsed time is len(series)/252, not the calendar distance between the
// first and last dates, so gaps (holidays, halts) are not corrected for.
const TradingDaysPerYear = 252

var (
	// ErrInsufficientData is returned when a series is too short for the computation.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrNonPositivePrice is returned when the base close is zero or negative.
	ErrNonPositivePrice = errors.New("non-positive base price")
)

// ComputeCAGR returns the compound annual growth rate of series in percent:
// ((last/first)^(1/years) - 1) * 100 with years = len/252.
// Series shorter than a year annualize a fractional period and can produce
// extreme figures. A rate that overflows float64 is reported as
// ErrInsufficientData.
func ComputeCAGR(series model.PriceSeries) (float64, error) {
	n := series.Len()
	if n < 2 {
		return 0, fmt.Errorf("cagr needs at least 2 points, got %d: %w", n, ErrInsufficientData)
	}
	start := series.First().Close
	if start <= 0 {
		return 0, fmt.Errorf("cagr first close %v: %w", start, ErrNonPositivePrice)
	}
	years := float64(n) / TradingDaysPerYear
	end := series.Last().Close
	cagr := (math.Pow(end/start, 1/years) - 1) * 100
	if math.IsNaN(cagr) || math.IsInf(cagr, 0) {
		return 0, fmt.Errorf("cagr over %d points is not finite: %w", n, ErrInsufficientData)
	}
	return cagr, nil
}
