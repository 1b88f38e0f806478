package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"InvestSuggest/internal/cache"
	"InvestSuggest/internal/model"
	"InvestSuggest/internal/trace"
)

// MockFetcher returns fixed data for development and testing.
type MockFetcher struct {
	Series map[string]model.PriceSeries
	Err    error
	Calls  int
	mu     sync.Mutex
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, symbol string) (model.PriceSeries, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.Err != nil {
		return model.PriceSeries{Symbol: symbol}, &FetchError{Source: m.Name(), Symbol: symbol, Err: m.Err}
	}
	if s, ok := m.Series[symbol]; ok {
		return s, nil
	}
	return model.PriceSeries{Symbol: symbol}, nil
}

// GenerateSeries builds count daily closes ending today that grow by
// dailyDrift per day from basePrice.
func GenerateSeries(symbol string, basePrice, dailyDrift float64, count int) model.PriceSeries {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	pts := make([]model.PricePoint, count)
	p := basePrice
	for i := 0; i < count; i++ {
		pts[i] = model.PricePoint{Date: today.AddDate(0, 0, -(count - 1 - i)), Close: p}
		p *= 1 + dailyDrift
	}
	return model.PriceSeries{Symbol: symbol, Points: pts}
}

// Collector fronts a Fetcher with a cache and enforces PriceSeries invariants.
type Collector struct {
	Fetcher Fetcher
	Cache   cache.Cache
	TTL     time.Duration
}

// NewCollector creates a new Collector. c may be nil to disable caching.
func NewCollector(fetcher Fetcher, c cache.Cache, ttl time.Duration) *Collector {
	return &Collector{Fetcher: fetcher, Cache: c, TTL: ttl}
}

func cacheKey(source, symbol string) string {
	return fmt.Sprintf("history:%s:%s", source, symbol)
}

// History returns the normalized five-year series for symbol. Cache failures
// are logged and fall through to the fetcher.
func (c *Collector) History(ctx context.Context, symbol string) (model.PriceSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	key := cacheKey(c.Fetcher.Name(), symbol)

	if c.Cache != nil {
		if s, ok := c.fromCache(ctx, key); ok {
			trace.Log(ctx, "[INFO] cache hit for %s (%d points)", symbol, s.Len())
			return s, nil
		}
	}

	series, err := c.Fetcher.FetchHistory(ctx, symbol)
	if err != nil {
		return model.PriceSeries{Symbol: symbol}, err
	}
	series = Normalize(series)
	trace.Log(ctx, "[INFO] fetched %s from %s: %d points", symbol, c.Fetcher.Name(), series.Len())

	// Empty results are not cached so a newly listed symbol shows up on the next request.
	if c.Cache != nil && !series.Empty() {
		c.toCache(ctx, key, series)
	}
	return series, nil
}

func (c *Collector) fromCache(ctx context.Context, key string) (model.PriceSeries, bool) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err != nil {
		trace.Log(ctx, "[WARN] cache get %s: %v", key, err)
		return model.PriceSeries{}, false
	}
	if !ok {
		return model.PriceSeries{}, false
	}
	var s model.PriceSeries
	if err := json.Unmarshal(data, &s); err != nil {
		trace.Log(ctx, "[WARN] cache decode %s: %v", key, err)
		return model.PriceSeries{}, false
	}
	return s, true
}

func (c *Collector) toCache(ctx context.Context, key string, s model.PriceSeries) {
	data, err := json.Marshal(s)
	if err != nil {
		trace.Log(ctx, "[WARN] cache encode %s: %v", key, err)
		return
	}
	if err := c.Cache.Set(ctx, key, data, c.TTL); err != nil {
		trace.Log(ctx, "[WARN] cache set %s: %v", key, err)
	}
}

// Normalize sorts points by date, drops non-positive or non-finite closes and
// keeps the last close for any repeated calendar day.
func Normalize(s model.PriceSeries) model.PriceSeries {
	pts := make([]model.PricePoint, 0, len(s.Points))
	for _, p := range s.Points {
		if p.Close <= 0 || math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			continue
		}
		pts = append(pts, p)
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })

	out := pts[:0]
	for _, p := range pts {
		if n := len(out); n > 0 && sameDay(out[n-1].Date, p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return model.PriceSeries{Symbol: s.Symbol, Points: out}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
