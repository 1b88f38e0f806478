package advisor

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"InvestSuggest/internal/collector"
	"InvestSuggest/internal/forecast"
	"InvestSuggest/internal/model"
	"InvestSuggest/internal/ratetable"
)

type stubEngine struct{ calls int }

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Forecast(_ context.Context, in model.ForecastInput, horizonDays int) (*forecast.Frame, error) {
	s.calls++
	if err := forecast.ValidateInput(in); err != nil {
		return nil, err
	}
	n := len(in.Points)
	ts := make([]time.Time, 0, n+horizonDays)
	for _, p := range in.Points {
		ts = append(ts, p.Timestamp)
	}
	ts = append(ts, forecast.FutureTimestamps(ts[n-1], horizonDays)...)
	v := make([]float64, len(ts))
	for i := range v {
		v[i] = in.Points[n-1].Value
	}
	return &forecast.Frame{Timestamps: ts, Columns: map[string][]float64{
		forecast.ColPredicted: v, forecast.ColLower: v, forecast.ColUpper: v, "trend": v,
	}}, nil
}

func series(symbol string, n int, first, last float64) model.PriceSeries {
	loc := time.FixedZone("EST", -5*3600)
	start := time.Date(2020, 1, 2, 9, 30, 0, 0, loc)
	pts := make([]model.PricePoint, n)
	for i := range pts {
		c := first
		if n > 1 {
			c = first + (last-first)*float64(i)/float64(n-1)
		}
		pts[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Close: c}
	}
	return model.PriceSeries{Symbol: symbol, Points: pts}
}

func newAdvisor(t *testing.T, mock *collector.MockFetcher) (*Advisor, *stubEngine) {
	t.Helper()
	rates, err := ratetable.New([]model.RateEntry{
		{BankName: BankPlaceholder, TenureYears: 1, InterestRate: 0},
		{BankName: "SBI", TenureYears: 3, InterestRate: 6.5},
		{BankName: "HDFC Bank", TenureYears: 1, InterestRate: 6.6},
	})
	if err != nil {
		t.Fatalf("rate table: %v", err)
	}
	eng := &stubEngine{}
	return New(rates, collector.NewCollector(mock, nil, 0), eng), eng
}

func TestQuoteDeposit(t *testing.T) {
	a, _ := newAdvisor(t, &collector.MockFetcher{})
	q, err := a.QuoteDeposit(context.Background(), "SBI", 3, 100000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(q.Maturity-120794.96) > 0.005 {
		t.Errorf("expected maturity ~120794.96, got %v", q.Maturity)
	}
	if math.Abs(q.InterestEarned-(q.Maturity-q.Principal)) > 0.005 {
		t.Errorf("interest %v != maturity - principal", q.InterestEarned)
	}
}

func TestQuoteDeposit_Errors(t *testing.T) {
	a, _ := newAdvisor(t, &collector.MockFetcher{})
	tests := []struct {
		name      string
		bank      string
		tenure    int
		principal float64
		kind      Kind
	}{
		{"placeholder bank", BankPlaceholder, 1, 20000, KindValidation},
		{"blank bank", "  ", 1, 20000, KindValidation},
		{"tenure too long", "SBI", 6, 20000, KindValidation},
		{"principal too small", "SBI", 3, 500, KindValidation},
		{"principal NaN", "SBI", 3, math.NaN(), KindValidation},
		{"principal +Inf", "SBI", 3, math.Inf(1), KindValidation},
		{"principal -Inf", "SBI", 3, math.Inf(-1), KindValidation},
		{"missing rate", "SBI", 2, 20000, KindNotFound},
		{"unknown bank", "Nope Bank", 1, 20000, KindNotFound},
	}
	for _, tt := range tests {
		_, err := a.QuoteDeposit(context.Background(), tt.bank, tt.tenure, tt.principal)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if got := Classify(err); got != tt.kind {
			t.Errorf("%s: expected %v, got %v (%v)", tt.name, tt.kind, got, err)
		}
	}
}

func TestBanks_HidesPlaceholder(t *testing.T) {
	a, _ := newAdvisor(t, &collector.MockFetcher{})
	got := a.Banks()
	if len(got) != 2 || got[0] != "SBI" || got[1] != "HDFC Bank" {
		t.Errorf("unexpected banks %v", got)
	}
}

func TestAnalyzeGrowth(t *testing.T) {
	mock := &collector.MockFetcher{Series: map[string]model.PriceSeries{
		"ACME": series("ACME", 252, 100, 110),
	}}
	a, _ := newAdvisor(t, mock)
	r, err := a.AnalyzeGrowth(context.Background(), "acme", 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Found {
		t.Fatal("expected data to be found")
	}
	if math.Abs(r.CAGRPercent-10) > 1e-9 {
		t.Errorf("expected CAGR 10%%, got %v", r.CAGRPercent)
	}
	if r.Series[0].Value != 10000 {
		t.Errorf("expected curve to start at 10000, got %v", r.Series[0].Value)
	}
	if math.Abs(r.FinalValue-11000) > 1e-6 {
		t.Errorf("expected final value 11000, got %v", r.FinalValue)
	}
	if r.High52w != 110 || r.Low52w != 100 || r.Position52w != 1 {
		t.Errorf("unexpected 52w stats: %v/%v/%v", r.High52w, r.Low52w, r.Position52w)
	}
}

func TestAnalyzeGrowth_EmptyIsNotAnError(t *testing.T) {
	a, _ := newAdvisor(t, &collector.MockFetcher{})
	r, err := a.AnalyzeGrowth(context.Background(), "UNKNOWN", 10000)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if r.Found {
		t.Error("expected Found=false for unknown ticker")
	}
}

func TestAnalyzeGrowth_SinglePoint(t *testing.T) {
	mock := &collector.MockFetcher{Series: map[string]model.PriceSeries{
		"NEW": series("NEW", 1, 50, 50),
	}}
	a, _ := newAdvisor(t, mock)
	_, err := a.AnalyzeGrowth(context.Background(), "NEW", 10000)
	if Classify(err) != KindInsufficientData {
		t.Fatalf("expected insufficient data, got %v", err)
	}
	if !strings.Contains(UserMessage(err), "Insufficient data") {
		t.Errorf("unexpected message %q", UserMessage(err))
	}
}

func TestAnalyzeGrowth_FetchError(t *testing.T) {
	a, _ := newAdvisor(t, &collector.MockFetcher{Err: errors.New("dial tcp: timeout")})
	_, err := a.AnalyzeGrowth(context.Background(), "ACME", 10000)
	if Classify(err) != KindFetch {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if msg := UserMessage(err); !strings.Contains(msg, "dial tcp: timeout") || !strings.Contains(msg, "ACME") {
		t.Errorf("expected cause and symbol in %q", msg)
	}
}

func TestAnalyzeGrowth_Validation(t *testing.T) {
	a, _ := newAdvisor(t, &collector.MockFetcher{})
	if _, err := a.AnalyzeGrowth(context.Background(), "", 10000); Classify(err) != KindValidation {
		t.Errorf("expected validation error for blank ticker, got %v", err)
	}
	if _, err := a.AnalyzeGrowth(context.Background(), "ACME", 10); Classify(err) != KindValidation {
		t.Errorf("expected validation error for small investment, got %v", err)
	}
}

func TestForecast(t *testing.T) {
	mock := &collector.MockFetcher{Series: map[string]model.PriceSeries{
		"ACME": series("ACME", 30, 100, 130),
	}}
	a, eng := newAdvisor(t, mock)
	r, err := a.Forecast(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Found || r.Engine != "stub" || r.Disclaimer == "" {
		t.Errorf("unexpected report header: %+v", r)
	}
	if len(r.Rows) != 30+forecast.HorizonDays {
		t.Errorf("expected %d rows, got %d", 30+forecast.HorizonDays, len(r.Rows))
	}
	if r.Final().Predicted != 130 {
		t.Errorf("expected final prediction 130, got %v", r.Final().Predicted)
	}
	if eng.calls != 1 {
		t.Errorf("expected one engine call, got %d", eng.calls)
	}
}

func TestForecast_EmptyAndSparse(t *testing.T) {
	mock := &collector.MockFetcher{Series: map[string]model.PriceSeries{
		"NEW": series("NEW", 1, 50, 50),
	}}
	a, eng := newAdvisor(t, mock)

	r, err := a.Forecast(context.Background(), "MISSING")
	if err != nil || r.Found {
		t.Errorf("expected empty report, got %+v err=%v", r, err)
	}

	_, err = a.Forecast(context.Background(), "NEW")
	if Classify(err) != KindInsufficientData {
		t.Errorf("expected insufficient data, got %v", err)
	}
	if eng.calls != 0 {
		t.Errorf("engine should not run, got %d calls", eng.calls)
	}
}

func TestUserMessage_Distinct(t *testing.T) {
	errs := []error{
		&InputError{Msg: "please choose a bank"},
		&ratetable.NotFoundError{Bank: "SBI", TenureYears: 2},
		&collector.FetchError{Source: "yahoo", Symbol: "X", Err: errors.New("down")},
		forecast.ErrInsufficientData,
		errors.New("something else"),
	}
	seen := make(map[string]bool)
	for _, err := range errs {
		msg := UserMessage(err)
		if msg == "" || seen[msg] {
			t.Errorf("message for %v is empty or duplicated: %q", err, msg)
		}
		seen[msg] = true
	}
}
