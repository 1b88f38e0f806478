package main

import (
	"context"
	"flag"
	"log"

	"InvestSuggest/internal/ratetable"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	csvPath := flag.String("csv", "data/interest_rates.csv", "source CSV with bank_name,tenure_years,interest_rate")
	dbPath := flag.String("db", "data/rates.db", "target SQLite database")
	flag.Parse()

	t, err := ratetable.LoadCSV(*csvPath)
	if err != nil {
		log.Fatalf("[FATAL] load csv: %v", err)
	}
	if err := ratetable.ImportSQLite(context.Background(), *dbPath, t.Entries()); err != nil {
		log.Fatalf("[FATAL] import: %v", err)
	}
	log.Printf("[INFO] imported %d rates for %d banks into %s", t.Len(), len(t.Banks()), *dbPath)
}
