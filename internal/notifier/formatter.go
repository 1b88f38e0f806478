package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"InvestSuggest/internal/advisor"
	"InvestSuggest/internal/model"
)

// Money formats v as rupees with thousands separators and two decimals.
func Money(v float64) string {
	return "₹" + humanize.CommafWithDigits(v, 2)
}

// FormatDepositQuote formats a fixed deposit quote.
func FormatDepositQuote(q model.DepositQuote) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🏦 <b>Fixed Deposit</b> | %s, %d year(s)\n\n", html.EscapeString(q.Bank), q.TenureYears))
	b.WriteString(fmt.Sprintf("Interest Rate: %.2f%%\n", q.RatePercent))
	b.WriteString(fmt.Sprintf("Principal Amount: %s\n", Money(q.Principal)))
	b.WriteString(fmt.Sprintf("Interest Earned: %s\n", Money(q.InterestEarned)))
	b.WriteString(fmt.Sprintf("Maturity Amount: %s\n", Money(q.Maturity)))
	return b.String()
}

// FormatGrowthReport formats a historical analysis.
func FormatGrowthReport(r *advisor.GrowthReport) string {
	if !r.Found {
		return html.EscapeString(advisor.MsgNoData)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s → %s\n\n", html.EscapeString(r.Ticker),
		r.Start.Format("2006-01-02"), r.End.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("5-Year CAGR: %.2f%%\n", r.CAGRPercent))
	b.WriteString(fmt.Sprintf("Growth of %s: %s\n", Money(r.InitialInvestment), Money(r.FinalValue)))
	b.WriteString(fmt.Sprintf("Last Close: %.2f\n", r.LastClose))
	b.WriteString(fmt.Sprintf("52W Range: %.2f – %.2f (position %.0f%%)\n", r.Low52w, r.High52w, r.Position52w*100))
	return b.String()
}

// FormatForecastReport summarizes a forecast: the fitted value at the last
// observation and the prediction at the end of the horizon.
func FormatForecastReport(r *advisor.ForecastReport) string {
	if !r.Found {
		return html.EscapeString(advisor.MsgNoData)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔮 <b>%s</b> | %d-day forecast (%s)\n\n", html.EscapeString(r.Ticker), r.HorizonDays, r.Engine))
	if r.History > 0 && r.History <= len(r.Rows) {
		fit := r.Rows[r.History-1]
		b.WriteString(fmt.Sprintf("Fitted %s: %.2f\n", fit.Timestamp.Format("2006-01-02"), fit.Predicted))
	}
	end := r.Final()
	b.WriteString(fmt.Sprintf("Forecast %s: %.2f (%.2f – %.2f)\n", end.Timestamp.Format("2006-01-02"), end.Predicted, end.Lower, end.Upper))
	b.WriteString(fmt.Sprintf("\n⚠️ <i>%s</i>\n", html.EscapeString(r.Disclaimer)))
	return b.String()
}

// DigestLine is one ticker's entry in the watchlist digest.
type DigestLine struct {
	Ticker string
	Report *advisor.GrowthReport
	Err    error
}

// FormatDigest formats the periodic watchlist summary.
func FormatDigest(now time.Time, lines []DigestLine) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>Watchlist digest</b> | %s\n\n", now.Format("2006-01-02")))
	for _, l := range lines {
		name := html.EscapeString(l.Ticker)
		switch {
		case l.Err != nil:
			b.WriteString(fmt.Sprintf("❌ %s: %s\n", name, html.EscapeString(advisor.UserMessage(l.Err))))
		case !l.Report.Found:
			b.WriteString(fmt.Sprintf("❔ %s: no data\n", name))
		default:
			b.WriteString(fmt.Sprintf("• %s: CAGR %+.2f%%, last %.2f, 52W position %.0f%%\n",
				name, l.Report.CAGRPercent, l.Report.LastClose, l.Report.Position52w*100))
		}
	}
	return b.String()
}

// FormatError renders a flow error for chat.
func FormatError(err error) string {
	return "❌ " + html.EscapeString(advisor.UserMessage(err))
}
