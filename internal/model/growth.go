package model

import "time"

// GrowthPoint is the value of a hypothetical investment on a given date.
type GrowthPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// GrowthResult bundles the annualized growth rate with the growth curve.
type GrowthResult struct {
	CAGRPercent float64       `json:"cagr_percent"`
	Series      []GrowthPoint `json:"series"`
}
