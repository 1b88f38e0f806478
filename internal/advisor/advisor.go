// Package advisor implements the three user flows: fixed deposit quotes,
// historical growth analysis and price forecasts.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"InvestSuggest/internal/calculator"
	"InvestSuggest/internal/forecast"
	"InvestSuggest/internal/model"
	"InvestSuggest/internal/ratetable"
	"InvestSuggest/internal/trace"
)

// ErrInvalidInput marks user input rejected before any computation.
var ErrInvalidInput = errors.New("invalid input")

const (
	// BankPlaceholder is the picker's "no selection" row in the rate table.
	BankPlaceholder = "Select your bank"
	// DefaultMinPrincipal is the smallest deposit or investment accepted.
	DefaultMinPrincipal = 10000

	Disclaimer = "This is a statistical forecast based on historical data and should not be considered financial advice. " +
		"Past performance is not indicative of future results."
)

// HistorySource returns normalized daily closes for a ticker.
type HistorySource interface {
	History(ctx context.Context, symbol string) (model.PriceSeries, error)
}

// Advisor serves the request flows. It holds no per-request state.
type Advisor struct {
	Rates        *ratetable.Table
	Market       HistorySource
	Engine       forecast.Engine
	MinPrincipal float64
}

// New creates an Advisor with DefaultMinPrincipal.
func New(rates *ratetable.Table, market HistorySource, engine forecast.Engine) *Advisor {
	return &Advisor{Rates: rates, Market: market, Engine: engine, MinPrincipal: DefaultMinPrincipal}
}

// InputError carries a user-facing validation message. It matches ErrInvalidInput.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string        { return e.Msg }
func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(format string, args ...interface{}) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

// Banks lists selectable banks, without the placeholder row.
func (a *Advisor) Banks() []string {
	all := a.Rates.Banks()
	out := all[:0]
	for _, b := range all {
		if b != BankPlaceholder {
			out = append(out, b)
		}
	}
	return out
}

// QuoteDeposit looks up the bank's rate for tenureYears and prices principal.
func (a *Advisor) QuoteDeposit(ctx context.Context, bank string, tenureYears int, principal float64) (model.DepositQuote, error) {
	bank = strings.TrimSpace(bank)
	if bank == "" || bank == BankPlaceholder {
		return model.DepositQuote{}, invalid("please choose a bank")
	}
	if tenureYears < ratetable.MinTenureYears || tenureYears > ratetable.MaxTenureYears {
		return model.DepositQuote{}, invalid("tenure must be between %d and %d years", ratetable.MinTenureYears, ratetable.MaxTenureYears)
	}
	if err := a.checkAmount("principal", principal); err != nil {
		return model.DepositQuote{}, err
	}
	entry, err := a.Rates.Lookup(bank, tenureYears)
	if err != nil {
		trace.Log(ctx, "[WARN] deposit quote: %v", err)
		return model.DepositQuote{}, err
	}
	q := calculator.QuoteDeposit(entry, principal)
	trace.Log(ctx, "[INFO] deposit quote %s %dy @%.2f%%: %.2f -> %.2f", bank, tenureYears, entry.InterestRate, principal, q.Maturity)
	return q, nil
}

func (a *Advisor) checkAmount(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid("%s must be a finite number", name)
	}
	if v < a.MinPrincipal {
		return invalid("%s must be at least %.0f", name, a.MinPrincipal)
	}
	return nil
}

func normalizeTicker(ticker string) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return "", invalid("please enter a stock ticker")
	}
	return ticker, nil
}

// GrowthReport is the outcome of a historical analysis. Found is false when
// the provider has no data for the ticker; the other fields are then zero.
type GrowthReport struct {
	Ticker            string              `json:"ticker"`
	Found             bool                `json:"found"`
	InitialInvestment float64             `json:"initial_investment"`
	CAGRPercent       float64             `json:"cagr_percent"`
	FinalValue        float64             `json:"final_value"`
	Series            []model.GrowthPoint `json:"series,omitempty"`
	Start             time.Time           `json:"start,omitempty"`
	End               time.Time           `json:"end,omitempty"`
	TradingDays       int                 `json:"trading_days"`
	LastClose         float64             `json:"last_close"`
	High52w           float64             `json:"high_52w"`
	Low52w            float64             `json:"low_52w"`
	Position52w       float64             `json:"position_52w"`
}

// AnalyzeGrowth fetches five years of history and computes CAGR and the
// growth of initialInvestment.
func (a *Advisor) AnalyzeGrowth(ctx context.Context, ticker string, initialInvestment float64) (*GrowthReport, error) {
	ticker, err := normalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	if err := a.checkAmount("initial investment", initialInvestment); err != nil {
		return nil, err
	}
	series, err := a.Market.History(ctx, ticker)
	if err != nil {
		trace.Log(ctx, "[ERROR] history %s: %v", ticker, err)
		return nil, err
	}
	report := &GrowthReport{Ticker: ticker, InitialInvestment: initialInvestment}
	if series.Empty() {
		trace.Log(ctx, "[INFO] no data for %s", ticker)
		return report, nil
	}

	growth, err := calculator.Analyze(series, initialInvestment)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", ticker, err)
	}
	high, low, err := calculator.Calculate52WeekRange(series)
	if err != nil {
		return nil, fmt.Errorf("52-week range %s: %w", ticker, err)
	}
	last := series.Last()
	pos, err := calculator.Calculate52WeekPosition(last.Close, high, low)
	if err != nil {
		return nil, fmt.Errorf("52-week position %s: %w", ticker, err)
	}

	report.Found = true
	report.CAGRPercent = growth.CAGRPercent
	report.Series = growth.Series
	report.FinalValue = growth.Series[len(growth.Series)-1].Value
	report.Start = series.First().Date
	report.End = last.Date
	report.TradingDays = series.Len()
	report.LastClose = last.Close
	report.High52w = high
	report.Low52w = low
	report.Position52w = pos
	trace.Log(ctx, "[INFO] analyzed %s: %d points, CAGR %.2f%%", ticker, series.Len(), growth.CAGRPercent)
	return report, nil
}

// ForecastReport is the outcome of a forecast request. Found is false when
// the provider has no data for the ticker.
type ForecastReport struct {
	Ticker      string              `json:"ticker"`
	Found       bool                `json:"found"`
	Engine      string              `json:"engine,omitempty"`
	HorizonDays int                 `json:"horizon_days"`
	History     int                 `json:"history_points"`
	Rows        []model.ForecastRow `json:"rows,omitempty"`
	Disclaimer  string              `json:"disclaimer,omitempty"`
}

// Final returns the last forecast row. Found must be true.
func (r *ForecastReport) Final() model.ForecastRow { return r.Rows[len(r.Rows)-1] }

// Forecast fetches history and runs the engine once over HorizonDays.
func (a *Advisor) Forecast(ctx context.Context, ticker string) (*ForecastReport, error) {
	ticker, err := normalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	series, err := a.Market.History(ctx, ticker)
	if err != nil {
		trace.Log(ctx, "[ERROR] history %s: %v", ticker, err)
		return nil, err
	}
	report := &ForecastReport{Ticker: ticker, HorizonDays: forecast.HorizonDays}
	if series.Empty() {
		trace.Log(ctx, "[INFO] no data for %s", ticker)
		return report, nil
	}

	start := time.Now()
	out, err := forecast.Run(ctx, a.Engine, series)
	if err != nil {
		trace.Log(ctx, "[ERROR] forecast %s: %v", ticker, err)
		return nil, fmt.Errorf("forecast %s: %w", ticker, err)
	}
	trace.Log(ctx, "[INFO] forecast %s via %s: %d rows in %v", ticker, a.Engine.Name(), len(out.Rows), time.Since(start).Round(time.Millisecond))

	report.Found = true
	report.Engine = a.Engine.Name()
	report.History = series.Len()
	report.Rows = out.Rows
	report.Disclaimer = Disclaimer
	return report, nil
}
