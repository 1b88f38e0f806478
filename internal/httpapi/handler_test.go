package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"InvestSuggest/internal/advisor"
	"InvestSuggest/internal/collector"
	"InvestSuggest/internal/forecast"
	"InvestSuggest/internal/model"
	"InvestSuggest/internal/ratetable"
)

type flatEngine struct{}

func (flatEngine) Name() string { return "flat" }

func (flatEngine) Forecast(_ context.Context, in model.ForecastInput, horizonDays int) (*forecast.Frame, error) {
	if err := forecast.ValidateInput(in); err != nil {
		return nil, err
	}
	last := in.Points[len(in.Points)-1]
	ts := forecast.FutureTimestamps(last.Timestamp, horizonDays)
	v := make([]float64, len(ts))
	for i := range v {
		v[i] = last.Value
	}
	return &forecast.Frame{Timestamps: ts, Columns: map[string][]float64{
		forecast.ColPredicted: v, forecast.ColLower: v, forecast.ColUpper: v,
	}}, nil
}

func newTestRouter(t *testing.T, mock *collector.MockFetcher, limiter *RateLimiter) http.Handler {
	t.Helper()
	rates, err := ratetable.New([]model.RateEntry{
		{BankName: "SBI", TenureYears: 3, InterestRate: 6.5},
	})
	if err != nil {
		t.Fatalf("rate table: %v", err)
	}
	a := advisor.New(rates, collector.NewCollector(mock, nil, 0), flatEngine{})
	return NewRouter(a, limiter)
}

func acmeSeries() model.PriceSeries {
	start := time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)
	pts := make([]model.PricePoint, 252)
	for i := range pts {
		pts[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Close: 100 + 10*float64(i)/251}
	}
	return model.PriceSeries{Symbol: "ACME", Points: pts}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestDeposit_OK(t *testing.T) {
	h := newTestRouter(t, &collector.MockFetcher{}, nil)
	w := do(t, h, http.MethodPost, "/api/v1/deposit", `{"bank":"SBI","tenure_years":3,"principal":100000}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	var q model.DepositQuote
	if err := json.NewDecoder(w.Body).Decode(&q); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if q.Maturity != 120794.96 {
		t.Errorf("expected 120794.96, got %v", q.Maturity)
	}
	if w.Header().Get("X-Trace-Id") == "" {
		t.Error("expected trace id header")
	}
}

func TestDeposit_Errors(t *testing.T) {
	h := newTestRouter(t, &collector.MockFetcher{}, nil)
	tests := []struct {
		name string
		body string
		code int
		kind string
	}{
		{"bad json", `{invalid-json}`, http.StatusBadRequest, "validation"},
		{"unknown field", `{"bank":"SBI","tenure":3}`, http.StatusBadRequest, "validation"},
		{"placeholder bank", `{"bank":"Select your bank","tenure_years":3,"principal":100000}`, http.StatusBadRequest, "validation"},
		{"missing rate", `{"bank":"SBI","tenure_years":2,"principal":100000}`, http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		w := do(t, h, http.MethodPost, "/api/v1/deposit", tt.body)
		if w.Code != tt.code {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.code, w.Code)
			continue
		}
		var e errorResponse
		if err := json.NewDecoder(w.Body).Decode(&e); err != nil {
			t.Fatalf("%s: decode: %v", tt.name, err)
		}
		if e.Kind != tt.kind || e.Error == "" {
			t.Errorf("%s: unexpected error body %+v", tt.name, e)
		}
	}
}

func TestDeposit_MethodNotAllowed(t *testing.T) {
	h := newTestRouter(t, &collector.MockFetcher{}, nil)
	w := do(t, h, http.MethodGet, "/api/v1/deposit", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestBanks(t *testing.T) {
	h := newTestRouter(t, &collector.MockFetcher{}, nil)
	w := do(t, h, http.MethodGet, "/api/v1/banks", "")
	var body map[string][]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body["banks"]) != 1 || body["banks"][0] != "SBI" {
		t.Errorf("unexpected banks %v", body)
	}
}

func TestAnalysis(t *testing.T) {
	mock := &collector.MockFetcher{Series: map[string]model.PriceSeries{"ACME": acmeSeries()}}
	h := newTestRouter(t, mock, nil)

	w := do(t, h, http.MethodPost, "/api/v1/analysis", `{"ticker":"ACME","initial_investment":10000}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	var r advisor.GrowthReport
	if err := json.NewDecoder(w.Body).Decode(&r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.CAGRPercent < 9.999 || r.CAGRPercent > 10.001 {
		t.Errorf("expected ~10%% CAGR, got %v", r.CAGRPercent)
	}

	w = do(t, h, http.MethodPost, "/api/v1/analysis", `{"ticker":"NOPE","initial_investment":10000}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown ticker, got %d", w.Code)
	}
}

func TestAnalysis_FetchFailure(t *testing.T) {
	h := newTestRouter(t, &collector.MockFetcher{Err: errors.New("no route to host")}, nil)
	w := do(t, h, http.MethodPost, "/api/v1/analysis", `{"ticker":"ACME","initial_investment":10000}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}

func TestAnalysis_ExplosiveShortSeries(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	mock := &collector.MockFetcher{Series: map[string]model.PriceSeries{"SPIKE": {
		Symbol: "SPIKE",
		Points: []model.PricePoint{{Date: start, Close: 1}, {Date: start.AddDate(0, 0, 1), Close: 300}},
	}}}
	h := newTestRouter(t, mock, nil)
	w := do(t, h, http.MethodPost, "/api/v1/analysis", `{"ticker":"SPIKE","initial_investment":10000}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body)
	}
	var resp errorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Kind != advisor.KindInsufficientData.String() || resp.Error == "" {
		t.Errorf("unexpected error body %+v", resp)
	}
}

func TestWriteJSON_EncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusOK, map[string]float64{"cagr": math.Inf(1)})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Kind != "internal" {
		t.Errorf("unexpected kind %q", resp.Kind)
	}
}

func TestForecast(t *testing.T) {
	mock := &collector.MockFetcher{Series: map[string]model.PriceSeries{"ACME": acmeSeries()}}
	h := newTestRouter(t, mock, nil)
	w := do(t, h, http.MethodPost, "/api/v1/forecast", `{"ticker":"ACME"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	var r advisor.ForecastReport
	if err := json.NewDecoder(w.Body).Decode(&r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.HorizonDays != forecast.HorizonDays || len(r.Rows) != forecast.HorizonDays || r.Disclaimer == "" {
		t.Errorf("unexpected forecast report: horizon=%d rows=%d", r.HorizonDays, len(r.Rows))
	}
}

func TestRateLimit(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	defer limiter.Stop()
	h := newTestRouter(t, &collector.MockFetcher{}, limiter)
	body := `{"bank":"SBI","tenure_years":3,"principal":100000}`
	for i := 0; i < 2; i++ {
		if w := do(t, h, http.MethodPost, "/api/v1/deposit", body); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
	if w := do(t, h, http.MethodPost, "/api/v1/deposit", body); w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
		t.Errorf("health should not be rate limited, got %d", w.Code)
	}
	w := do(t, h, http.MethodPost, "/api/v1/analysis", `{"ticker":"NOPE","initial_investment":10000}`)
	if w.Code == http.StatusTooManyRequests {
		t.Error("analysis budget should be separate from deposit")
	}
}

func TestRateLimiter_WindowReset(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	defer limiter.Stop()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	if ok, _ := limiter.Allow("10.0.0.1", "forecast"); !ok {
		t.Fatal("first request should pass")
	}
	now = now.Add(20 * time.Second)
	ok, wait := limiter.Allow("10.0.0.1", "forecast")
	if ok || wait != 40*time.Second {
		t.Fatalf("expected rejection with 40s wait, got ok=%v wait=%v", ok, wait)
	}
	if ok, _ := limiter.Allow("10.0.0.2", "forecast"); !ok {
		t.Error("other clients have their own budget")
	}

	now = now.Add(40 * time.Second)
	if ok, _ := limiter.Allow("10.0.0.1", "forecast"); !ok {
		t.Error("budget should reset after the window")
	}
	now = now.Add(2 * time.Minute)
	limiter.sweep()
	limiter.mu.Lock()
	n := len(limiter.windows)
	limiter.mu.Unlock()
	if n != 0 {
		t.Errorf("expected ended windows to be swept, %d left", n)
	}
}

func TestRateLimitMiddleware_RetryAfter(t *testing.T) {
	limiter := NewRateLimiter(0, time.Minute)
	defer limiter.Stop()
	h := RateLimitMiddleware(limiter, "deposit", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))
	w := do(t, h, http.MethodPost, "/api/v1/deposit", "{}")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "60" {
		t.Errorf("expected Retry-After 60, got %q", got)
	}
}
