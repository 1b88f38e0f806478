package ratetable

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"InvestSuggest/internal/model"

	_ "modernc.org/sqlite"
)

// LoadSQLite reads the interest_rates table from a SQLite database. Rows are
// read in rowid order so first-match-wins follows insertion order.
func LoadSQLite(ctx context.Context, dsn string) (*Table, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT bank_name, tenure_years, interest_rate FROM interest_rates ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query interest_rates: %w", err)
	}
	defer rows.Close()

	var entries []model.RateEntry
	for rows.Next() {
		var e model.RateEntry
		if err := rows.Scan(&e.BankName, &e.TenureYears, &e.InterestRate); err != nil {
			return nil, fmt.Errorf("scan interest_rates: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interest_rates: %w", err)
	}

	t, err := New(entries)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] rate table loaded from sqlite: %d rows", t.Len())
	return t, nil
}

// ImportSQLite creates the interest_rates table if needed and replaces its
// contents with rows. It seeds a database from a CSV export.
func ImportSQLite(ctx context.Context, dsn string, rows []model.RateEntry) error {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS interest_rates (
			bank_name     TEXT NOT NULL,
			tenure_years  INTEGER NOT NULL,
			interest_rate REAL NOT NULL
		)`,
		`DELETE FROM interest_rates`,
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:24], err)
		}
	}
	for _, r := range rows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO interest_rates (bank_name, tenure_years, interest_rate) VALUES (?,?,?)`,
			r.BankName, r.TenureYears, r.InterestRate); err != nil {
			return fmt.Errorf("insert %s/%d: %w", r.BankName, r.TenureYears, err)
		}
	}
	return tx.Commit()
}
