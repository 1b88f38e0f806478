package calculator

import (
	"github.com/shopspring/decimal"

	"InvestSuggest/internal/model"
)

var hundred = decimal.NewFromInt(100)

// ComputeMaturity returns principal * (1 + annualRatePercent/100)^years with
// annual compounding. Callers validate inputs: principal is expected to be
// positive and years non-negative. Zero years or a zero rate return principal.
func ComputeMaturity(principal, annualRatePercent decimal.Decimal, years int) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(annualRatePercent.Div(hundred))
	maturity := principal
	for i := 0; i < years; i++ {
		maturity = maturity.Mul(factor)
	}
	return maturity
}

// QuoteDeposit prices a deposit of principal at the rate in entry.
// Monetary fields are rounded to cents.
func QuoteDeposit(entry model.RateEntry, principal float64) model.DepositQuote {
	p := decimal.NewFromFloat(principal)
	maturity := ComputeMaturity(p, decimal.NewFromFloat(entry.InterestRate), entry.TenureYears)
	return model.DepositQuote{
		Bank:           entry.BankName,
		TenureYears:    entry.TenureYears,
		RatePercent:    entry.InterestRate,
		Principal:      principal,
		InterestEarned: maturity.Sub(p).Round(2).InexactFloat64(),
		Maturity:       maturity.Round(2).InexactFloat64(),
	}
}
