package advisor

import (
	"errors"
	"fmt"

	"InvestSuggest/internal/calculator"
	"InvestSuggest/internal/collector"
	"InvestSuggest/internal/forecast"
	"InvestSuggest/internal/ratetable"
)

// Kind classifies a flow error for the presentation layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindFetch
	KindInsufficientData
)

func (k Kind) String() string {
	return [...]string{"internal", "validation", "not_found", "fetch", "insufficient_data"}[k]
}

// MsgNoData is shown when a ticker has no price history.
const MsgNoData = "Could not find data for this ticker. Please check the symbol and try again."

// Classify maps err onto a Kind.
func Classify(err error) Kind {
	var fe *collector.FetchError
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ratetable.ErrNotFound):
		return KindNotFound
	case errors.As(err, &fe):
		return KindFetch
	case errors.Is(err, calculator.ErrInsufficientData),
		errors.Is(err, calculator.ErrNonPositivePrice),
		errors.Is(err, forecast.ErrInsufficientData):
		return KindInsufficientData
	default:
		return KindInternal
	}
}

// UserMessage renders err for display. Every kind yields a distinct message.
func UserMessage(err error) string {
	var fe *collector.FetchError
	switch Classify(err) {
	case KindValidation, KindNotFound:
		return err.Error()
	case KindFetch:
		errors.As(err, &fe)
		return fmt.Sprintf("An error occurred while fetching %s: %v. Please check your internet connection.", fe.Symbol, fe.Err)
	case KindInsufficientData:
		return "Insufficient data: this ticker does not have enough price history yet."
	default:
		return fmt.Sprintf("An internal error occurred: %v", err)
	}
}
