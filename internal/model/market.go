package model

import "time"

// PricePoint is a single daily close.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries holds daily closes sorted ascending by date, without duplicate
// dates and with strictly positive closes. An empty series means the provider
// has no data for the symbol.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// Len returns the number of points.
func (s PriceSeries) Len() int { return len(s.Points) }

// Empty reports whether the provider returned no data.
func (s PriceSeries) Empty() bool { return len(s.Points) == 0 }

// First returns the oldest point. The series must not be empty.
func (s PriceSeries) First() PricePoint { return s.Points[0] }

// Last returns the most recent point. The series must not be empty.
func (s PriceSeries) Last() PricePoint { return s.Points[len(s.Points)-1] }

// Closes returns the closing prices in order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}
