package ratetable

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"InvestSuggest/internal/model"
)

// Column names required in every rate source.
const (
	ColBank   = "bank_name"
	ColTenure = "tenure_years"
	ColRate   = "interest_rate"
)

// LoadCSV reads a rate table from a CSV file with a header row.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rates csv: %w", err)
	}
	defer f.Close()
	t, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseCSV reads rows from r. Extra columns are ignored; a missing required
// column or an unparsable value is an error.
func ParseCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range []string{ColBank, ColTenure, ColRate} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var rows []model.RateEntry
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tenure, err := strconv.Atoi(strings.TrimSpace(rec[idx[ColTenure]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: parse %s: %w", line, ColTenure, err)
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(rec[idx[ColRate]]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse %s: %w", line, ColRate, err)
		}
		rows = append(rows, model.RateEntry{
			BankName:     strings.TrimSpace(rec[idx[ColBank]]),
			TenureYears:  tenure,
			InterestRate: rate,
		})
	}
	return New(rows)
}
