package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"InvestSuggest/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string, timeout time.Duration) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// FetchHistory returns adjusted daily closes for the last five years, stamped
// in the exchange's timezone.
func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol string) (model.PriceSeries, error) {
	empty := model.PriceSeries{Symbol: symbol}
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%dy&events=div%%2Csplit",
		f.BaseURL, url.PathEscape(symbol), HistoryYears)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return empty, &FetchError{Source: f.Name(), Symbol: symbol, Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return empty, &FetchError{Source: f.Name(), Symbol: symbol, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, &FetchError{Source: f.Name(), Symbol: symbol, Err: fmt.Errorf("read body: %w", err)}
	}

	chartErr := gjson.GetBytes(body, "chart.error")
	if chartErr.Exists() && chartErr.Type != gjson.Null {
		if chartErr.Get("code").String() == "Not Found" {
			return empty, nil
		}
		return empty, &FetchError{Source: f.Name(), Symbol: symbol,
			Err: fmt.Errorf("api error: %s", chartErr.Get("description").String())}
	}
	if resp.StatusCode != http.StatusOK {
		return empty, &FetchError{Source: f.Name(), Symbol: symbol,
			Err: fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))}
	}

	points, err := parseYahooChart(body)
	if err != nil {
		return empty, &FetchError{Source: f.Name(), Symbol: symbol, Err: err}
	}
	return model.PriceSeries{Symbol: symbol, Points: points}, nil
}

// parseYahooChart extracts (timestamp, close) pairs. Adjusted closes are used
// when present. Null closes (holidays, halts) are skipped.
func parseYahooChart(body []byte) ([]model.PricePoint, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("decode: invalid json")
	}
	result := gjson.GetBytes(body, "chart.result.0")
	if !result.Exists() {
		return nil, nil
	}
	loc := exchangeLocation(result.Get("meta"))

	timestamps := result.Get("timestamp").Array()
	closes := result.Get("indicators.adjclose.0.adjclose").Array()
	if len(closes) == 0 {
		closes = result.Get("indicators.quote.0.close").Array()
	}
	if len(closes) != len(timestamps) {
		return nil, fmt.Errorf("decode: %d timestamps but %d closes", len(timestamps), len(closes))
	}

	points := make([]model.PricePoint, 0, len(timestamps))
	for i, ts := range timestamps {
		if closes[i].Type != gjson.Number {
			continue
		}
		points = append(points, model.PricePoint{
			Date:  time.Unix(ts.Int(), 0).In(loc),
			Close: closes[i].Float(),
		})
	}
	return points, nil
}

func exchangeLocation(meta gjson.Result) *time.Location {
	if name := meta.Get("exchangeTimezoneName").String(); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if off := meta.Get("gmtoffset"); off.Exists() {
		return time.FixedZone(meta.Get("timezone").String(), int(off.Int()))
	}
	return time.UTC
}
