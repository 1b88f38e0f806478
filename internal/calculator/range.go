package calculator

import (
	"fmt"
	"math"

	"InvestSuggest/internal/model"
)

// Calculate52WeekRange returns the highest and lowest close over the most
// recent 252 trading days.
func Calculate52WeekRange(series model.PriceSeries) (high, low float64, err error) {
	return trailingRange(series, TradingDaysPerYear)
}

func trailingRange(series model.PriceSeries, window int) (high, low float64, err error) {
	if series.Empty() {
		return 0, 0, fmt.Errorf("range of empty series: %w", ErrInsufficientData)
	}
	n := series.Len()
	start := n - window
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		c := series.Points[i].Close
		if c > high {
			high = c
		}
		if c < low {
			low = c
		}
	}
	return high, low, nil
}

// Calculate52WeekPosition returns where current sits within [low, high] (0.0~1.0).
func Calculate52WeekPosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, fmt.Errorf("high %v below low %v", high, low)
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
