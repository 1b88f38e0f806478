// Package forecast shapes price history for a forecasting engine and trims
// the engine's output to the fields exposed to callers. The statistical model
// itself lives behind Engine.
package forecast

import (
	"errors"
	"fmt"
	"time"

	"InvestSuggest/internal/model"
)

// HorizonDays is how far past the last observation every forecast extends.
const HorizonDays = 365

// Engine frame column names.
const (
	ColTimestamp = "ds"
	ColValue     = "y"
	ColPredicted = "yhat"
	ColLower     = "yhat_lower"
	ColUpper     = "yhat_upper"
)

// MinPoints is the fewest observations an engine accepts.
const MinPoints = 2

var (
	ErrTimezoneAware    = errors.New("forecast input timestamps must be timezone-naive")
	ErrInsufficientData = errors.New("insufficient data for forecast")
	ErrMalformedOutput  = errors.New("malformed forecast output")
)

// Frame is raw engine output: the ds column plus any number of named value
// columns, all of the same length.
type Frame struct {
	Timestamps []time.Time
	Columns    map[string][]float64
}

// StripTimezone keeps the wall-clock reading of t and drops its zone, so
// 2024-01-02 09:15 IST becomes 2024-01-02 09:15 naive.
func StripTimezone(t time.Time) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), time.UTC)
}

// IsNaive reports whether t carries no zone information.
func IsNaive(t time.Time) bool {
	return t.Location() == time.UTC
}

// ToForecastInput maps (date, close) to (ds, y) with zones stripped.
// Closes are copied unchanged.
func ToForecastInput(series model.PriceSeries) (model.ForecastInput, error) {
	pts := make([]model.ForecastPoint, len(series.Points))
	for i, p := range series.Points {
		pts[i] = model.ForecastPoint{Timestamp: StripTimezone(p.Date), Value: p.Close}
	}
	in := model.ForecastInput{Points: pts}
	if err := ValidateInput(in); err != nil {
		return model.ForecastInput{}, err
	}
	return in, nil
}

// ValidateInput is the engine boundary check. Engines call it before fitting.
func ValidateInput(in model.ForecastInput) error {
	if len(in.Points) < MinPoints {
		return fmt.Errorf("%d points, need %d: %w", len(in.Points), MinPoints, ErrInsufficientData)
	}
	for i, p := range in.Points {
		if !IsNaive(p.Timestamp) {
			return fmt.Errorf("point %d (%s in %s): %w", i, p.Timestamp.Format(time.RFC3339), p.Timestamp.Location(), ErrTimezoneAware)
		}
	}
	return nil
}

// ExtractForecastOutput keeps ds, yhat, yhat_lower and yhat_upper and drops
// every other column (trend, seasonality terms and so on).
func ExtractForecastOutput(f *Frame) (model.ForecastOutput, error) {
	if f == nil {
		return model.ForecastOutput{}, fmt.Errorf("nil frame: %w", ErrMalformedOutput)
	}
	n := len(f.Timestamps)
	cols := make(map[string][]float64, 3)
	for _, name := range []string{ColPredicted, ColLower, ColUpper} {
		c, ok := f.Columns[name]
		if !ok {
			return model.ForecastOutput{}, fmt.Errorf("missing column %q: %w", name, ErrMalformedOutput)
		}
		if len(c) != n {
			return model.ForecastOutput{}, fmt.Errorf("column %q has %d rows, %s has %d: %w", name, len(c), ColTimestamp, n, ErrMalformedOutput)
		}
		cols[name] = c
	}
	rows := make([]model.ForecastRow, n)
	for i, ts := range f.Timestamps {
		rows[i] = model.ForecastRow{
			Timestamp: ts,
			Predicted: cols[ColPredicted][i],
			Lower:     cols[ColLower][i],
			Upper:     cols[ColUpper][i],
		}
	}
	return model.ForecastOutput{Rows: rows}, nil
}

// FutureTimestamps returns days daily steps after last.
func FutureTimestamps(last time.Time, days int) []time.Time {
	out := make([]time.Time, days)
	for i := range out {
		out[i] = last.AddDate(0, 0, i+1)
	}
	return out
}
