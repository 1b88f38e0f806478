package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"InvestSuggest/internal/model"
)

// RESTFetcher implements Fetcher against a generic bars REST API that serves
// JSON arrays of daily bars.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bars API.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Close     float64 `json:"close"`
}

func (f *RESTFetcher) FetchHistory(ctx context.Context, symbol string) (model.PriceSeries, error) {
	empty := model.PriceSeries{Symbol: symbol}
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d",
		f.BaseURL, url.QueryEscape(symbol), HistoryYears*366)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return empty, &FetchError{Source: f.Name(), Symbol: symbol, Err: err}
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return empty, &FetchError{Source: f.Name(), Symbol: symbol, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return empty, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return empty, &FetchError{Source: f.Name(), Symbol: symbol,
			Err: fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))}
	}

	var bars []restBar
	if err := json.NewDecoder(resp.Body).Decode(&bars); err != nil {
		return empty, &FetchError{Source: f.Name(), Symbol: symbol, Err: fmt.Errorf("decode bars: %w", err)}
	}
	cutoff := time.Now().AddDate(-HistoryYears, 0, 0)
	points := make([]model.PricePoint, 0, len(bars))
	for _, b := range bars {
		ts := time.Unix(b.Timestamp, 0).UTC()
		if ts.Before(cutoff) {
			continue
		}
		points = append(points, model.PricePoint{Date: ts, Close: b.Close})
	}
	return model.PriceSeries{Symbol: symbol, Points: points}, nil
}
