package model

// RateEntry is one row of the bank interest rate table.
type RateEntry struct {
	BankName     string  `json:"bank_name"`
	TenureYears  int     `json:"tenure_years"`
	InterestRate float64 `json:"interest_rate"` // annual, percent (6.5 means 6.5%)
}

// DepositQuote is the result of a fixed deposit calculation.
type DepositQuote struct {
	Bank           string  `json:"bank"`
	TenureYears    int     `json:"tenure_years"`
	RatePercent    float64 `json:"rate_percent"`
	Principal      float64 `json:"principal"`
	InterestEarned float64 `json:"interest_earned"`
	Maturity       float64 `json:"maturity"`
}
