package model

import "time"

// ForecastPoint is one (ds, y) observation handed to a forecasting engine.
// Timestamps are timezone-naive: wall-clock time carried in time.UTC.
type ForecastPoint struct {
	Timestamp time.Time `json:"ds"`
	Value     float64   `json:"y"`
}

// ForecastInput is the engine input frame.
type ForecastInput struct {
	Points []ForecastPoint `json:"points"`
}

// ForecastRow is one row of engine output restricted to the fields we expose.
type ForecastRow struct {
	Timestamp time.Time `json:"ds"`
	Predicted float64   `json:"yhat"`
	Lower     float64   `json:"yhat_lower"`
	Upper     float64   `json:"yhat_upper"`
}

// ForecastOutput covers the fitted history followed by the future horizon.
type ForecastOutput struct {
	Rows []ForecastRow `json:"rows"`
}
