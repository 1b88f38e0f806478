package scheduler

import (
	"context"
	"fmt"
	"html"
	"math"
	"log"
	"strconv"
	"strings"
	"time"

	"InvestSuggest/internal/advisor"
	"InvestSuggest/internal/notifier"
	"InvestSuggest/internal/trace"

	"github.com/robfig/cron/v3"
)

// Sender delivers a formatted message to the configured chat.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the watchlist digest and answers chat commands.
type Scheduler struct {
	Cron              *cron.Cron
	Advisor           *advisor.Advisor
	Notifier          Sender
	Ctx               context.Context
	Tickers           []string
	DefaultInvestment float64
	now               func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, a *advisor.Advisor, n Sender, tickers []string, defaultInvestment float64) *Scheduler {
	return &Scheduler{
		Cron:              cron.New(cron.WithSeconds()),
		Advisor:           a,
		Notifier:          n,
		Ctx:               ctx,
		Tickers:           tickers,
		DefaultInvestment: defaultInvestment,
		now:               time.Now,
	}
}

// RegisterDigest schedules the watchlist digest on spec (six-field cron).
func (s *Scheduler) RegisterDigest(spec string) error {
	if len(s.Tickers) == 0 {
		return fmt.Errorf("register digest: no tickers configured")
	}
	if _, err := s.Cron.AddFunc(spec, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunDigestNow executes the digest immediately (for RUN_ON_START).
func (s *Scheduler) RunDigestNow() {
	s.digestTask()
}

// BuildDigest analyzes every watchlist ticker. A failing ticker becomes an
// error line; it does not abort the digest.
func (s *Scheduler) BuildDigest(ctx context.Context) string {
	lines := make([]notifier.DigestLine, 0, len(s.Tickers))
	for _, ticker := range s.Tickers {
		r, err := s.Advisor.AnalyzeGrowth(ctx, ticker, s.DefaultInvestment)
		lines = append(lines, notifier.DigestLine{Ticker: strings.ToUpper(ticker), Report: r, Err: err})
	}
	return notifier.FormatDigest(s.now(), lines)
}

func (s *Scheduler) digestTask() {
	ctx := trace.New(s.Ctx)
	trace.Log(ctx, "[INFO] running digest for %d tickers", len(s.Tickers))
	s.trySend(ctx, s.BuildDigest(ctx))
}

// HandleCommand processes a chat command and returns the reply.
func (s *Scheduler) HandleCommand(command string) string {
	ctx := trace.New(s.Ctx)
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	name := strings.ToLower(fields[0])
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i]
	}
	args := fields[1:]
	trace.Log(ctx, "[INFO] command %s %v", name, args)

	switch name {
	case "/banks":
		banks := s.Advisor.Banks()
		if len(banks) == 0 {
			return "No banks loaded."
		}
		return "🏦 <b>Banks</b>\n\n• " + html.EscapeString(strings.Join(banks, "\n• "))
	case "/fd":
		return s.handleDeposit(ctx, args)
	case "/cagr":
		return s.handleGrowth(ctx, args)
	case "/forecast":
		if len(args) != 1 {
			return usage("/forecast <ticker>")
		}
		r, err := s.Advisor.Forecast(ctx, args[0])
		if err != nil {
			return notifier.FormatError(err)
		}
		return notifier.FormatForecastReport(r)
	case "/digest":
		if len(s.Tickers) == 0 {
			return "No watchlist configured."
		}
		return s.BuildDigest(ctx)
	default:
		return helpText
	}
}

const helpText = "Available commands:\n" +
	"• /banks\n" +
	"• /fd &lt;bank&gt; &lt;years&gt; &lt;principal&gt;\n" +
	"• /cagr &lt;ticker&gt; [amount]\n" +
	"• /forecast &lt;ticker&gt;\n" +
	"• /digest"

// handleDeposit parses "<bank words...> <years> <principal>".
func (s *Scheduler) handleDeposit(ctx context.Context, args []string) string {
	if len(args) < 3 {
		return usage("/fd <bank> <years> <principal>")
	}
	n := len(args)
	years, err := strconv.Atoi(args[n-2])
	if err != nil {
		return "❌ years must be a whole number"
	}
	principal, err := parseAmount(args[n-1])
	if err != nil {
		return "❌ principal must be a number"
	}
	q, err := s.Advisor.QuoteDeposit(ctx, strings.Join(args[:n-2], " "), years, principal)
	if err != nil {
		return notifier.FormatError(err)
	}
	return notifier.FormatDepositQuote(q)
}

func (s *Scheduler) handleGrowth(ctx context.Context, args []string) string {
	if len(args) < 1 || len(args) > 2 {
		return usage("/cagr <ticker> [amount]")
	}
	amount := s.DefaultInvestment
	if len(args) == 2 {
		v, err := parseAmount(args[1])
		if err != nil {
			return "❌ amount must be a number"
		}
		amount = v
	}
	r, err := s.Advisor.AnalyzeGrowth(ctx, args[0], amount)
	if err != nil {
		return notifier.FormatError(err)
	}
	return notifier.FormatGrowthReport(r)
}

func usage(s string) string { return html.EscapeString("Usage: " + s) }

// parseAmount accepts digit grouping commas, e.g. "1,00,000". NaN, Inf and
// out-of-range values are rejected.
func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("amount %q is not a finite number", s)
	}
	return v, nil
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		trace.Log(ctx, "[ERROR] send notification: %v", err)
	}
}
