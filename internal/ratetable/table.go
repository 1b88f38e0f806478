// Package ratetable holds the static (bank, tenure) -> interest rate lookup.
// A Table is built once at startup and is read-only afterwards, so it is safe
// to share between goroutines.
package ratetable

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"InvestSuggest/internal/model"
)

// ErrNotFound is matched by every lookup miss.
var ErrNotFound = errors.New("rate not found")

// NotFoundError is returned by Lookup when no row matches.
type NotFoundError struct {
	Bank        string
	TenureYears int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No interest rate data found for %s for a %d-year tenure.", e.Bank, e.TenureYears)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

const (
	MinTenureYears = 1
	MaxTenureYears = 5
)

type key struct {
	bank   string
	tenure int
}

// Table is an immutable rate lookup.
type Table struct {
	entries map[key]model.RateEntry
	banks   []string
}

// New builds a Table from rows. When a (bank, tenure) pair repeats, the first
// row wins.
func New(rows []model.RateEntry) (*Table, error) {
	t := &Table{entries: make(map[key]model.RateEntry, len(rows))}
	seen := make(map[string]bool)
	for i, r := range rows {
		if err := validate(r); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		k := key{bank: r.BankName, tenure: r.TenureYears}
		if _, dup := t.entries[k]; !dup {
			t.entries[k] = r
		}
		if !seen[r.BankName] {
			seen[r.BankName] = true
			t.banks = append(t.banks, r.BankName)
		}
	}
	return t, nil
}

func validate(r model.RateEntry) error {
	if strings.TrimSpace(r.BankName) == "" {
		return errors.New("empty bank_name")
	}
	if r.TenureYears < MinTenureYears || r.TenureYears > MaxTenureYears {
		return fmt.Errorf("tenure_years %d outside [%d,%d]", r.TenureYears, MinTenureYears, MaxTenureYears)
	}
	if math.IsNaN(r.InterestRate) || math.IsInf(r.InterestRate, 0) || r.InterestRate < 0 {
		return fmt.Errorf("interest_rate %v must be a finite non-negative percent", r.InterestRate)
	}
	return nil
}

// Lookup returns the rate for bank and tenure, or a *NotFoundError.
func (t *Table) Lookup(bank string, tenureYears int) (model.RateEntry, error) {
	e, ok := t.entries[key{bank: bank, tenure: tenureYears}]
	if !ok {
		return model.RateEntry{}, &NotFoundError{Bank: bank, TenureYears: tenureYears}
	}
	return e, nil
}

// Banks returns the distinct bank names in source order.
func (t *Table) Banks() []string {
	out := make([]string, len(t.banks))
	copy(out, t.banks)
	return out
}

// Len returns the number of distinct (bank, tenure) pairs.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns the stored rows ordered by bank (source order) then tenure.
func (t *Table) Entries() []model.RateEntry {
	out := make([]model.RateEntry, 0, len(t.entries))
	for _, bank := range t.banks {
		for tenure := MinTenureYears; tenure <= MaxTenureYears; tenure++ {
			if e, ok := t.entries[key{bank: bank, tenure: tenure}]; ok {
				out = append(out, e)
			}
		}
	}
	return out
}
