package calculator

import (
	"fmt"

	"InvestSuggest/internal/model"
)

// ComputeGrowthCurve tracks what initialInvestment placed at the first close
// would be worth on every later date. The first value equals initialInvestment.
func ComputeGrowthCurve(series model.PriceSeries, initialInvestment float64) ([]model.GrowthPoint, error) {
	if series.Empty() {
		return nil, fmt.Errorf("growth curve of empty series: %w", ErrInsufficientData)
	}
	base := series.First().Close
	if base <= 0 {
		return nil, fmt.Errorf("growth curve base close %v: %w", base, ErrNonPositivePrice)
	}
	out := make([]model.GrowthPoint, len(series.Points))
	for i, p := range series.Points {
		out[i] = model.GrowthPoint{Date: p.Date, Value: p.Close / base * initialInvestment}
	}
	return out, nil
}

// Analyze computes CAGR and the growth curve together.
func Analyze(series model.PriceSeries, initialInvestment float64) (*model.GrowthResult, error) {
	cagr, err := ComputeCAGR(series)
	if err != nil {
		return nil, err
	}
	curve, err := ComputeGrowthCurve(series, initialInvestment)
	if err != nil {
		return nil, err
	}
	return &model.GrowthResult{CAGRPercent: cagr, Series: curve}, nil
}
