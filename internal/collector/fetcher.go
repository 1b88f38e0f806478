package collector

import (
	"context"
	"fmt"

	"InvestSuggest/internal/model"
)

// HistoryYears is the trailing window every Fetcher returns.
const HistoryYears = 5

// Fetcher retrieves daily closes for the trailing HistoryYears window.
// An unknown symbol yields an empty series and a nil error; transport and
// provider failures are returned as *FetchError.
type Fetcher interface {
	FetchHistory(ctx context.Context, symbol string) (model.PriceSeries, error)
	Name() string
}

// FetchError reports a failed market data lookup.
type FetchError struct {
	Source string
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: fetch %s: %v", e.Source, e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
