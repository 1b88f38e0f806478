package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"InvestSuggest/internal/advisor"
	"InvestSuggest/internal/cache"
	"InvestSuggest/internal/collector"
	"InvestSuggest/internal/config"
	"InvestSuggest/internal/forecast"
	"InvestSuggest/internal/httpapi"
	"InvestSuggest/internal/model"
	"InvestSuggest/internal/notifier"
	"InvestSuggest/internal/ratetable"
	"InvestSuggest/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] InvestSuggest starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load rate table
	var rates *ratetable.Table
	if cfg.Rates.SQLitePath != "" {
		rates, err = ratetable.LoadSQLite(ctx, cfg.Rates.SQLitePath)
	} else {
		rates, err = ratetable.LoadCSV(cfg.Rates.CSVPath)
	}
	if err != nil {
		log.Fatalf("[FATAL] load rate table: %v", err)
	}
	log.Printf("[INFO] rate table: %d entries, %d banks", rates.Len(), len(rates.Banks()))

	// Init fetcher
	var fetcher collector.Fetcher
	switch {
	case cfg.Market.Mock:
		fetcher = demoFetcher()
	case cfg.Market.BaseURL != "":
		fetcher = collector.NewRESTFetcher(cfg.Market.BaseURL, cfg.Market.APIKey, cfg.Proxy, cfg.MarketTimeout())
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy, cfg.MarketTimeout())
	}
	log.Printf("[INFO] market data source: %s", fetcher.Name())

	// Init cache
	var priceCache cache.Cache = cache.NewMemoryCache()
	if cfg.Cache.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, "investsuggest:")
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Printf("[WARN] redis unavailable, using memory cache: %v", err)
			rc.Close()
		} else {
			priceCache = rc
			log.Printf("[INFO] redis cache: %s", cfg.Cache.RedisAddr)
		}
		pingCancel()
	}
	defer priceCache.Close()

	col := collector.NewCollector(fetcher, priceCache, cfg.CacheTTL())
	adv := advisor.New(rates, col, forecast.NewGoForecaster(nil))

	// HTTP API
	limiter := httpapi.NewRateLimiter(cfg.Server.RateLimit, cfg.RateLimitWindow())
	defer limiter.Stop()
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpapi.NewRouter(adv, limiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		log.Printf("[INFO] HTTP API listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Telegram surface
	if cfg.TelegramEnabled() {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sched := scheduler.NewScheduler(ctx, adv, tn, cfg.Digest.Tickers, cfg.Digest.InitialInvestment)
		if len(cfg.Digest.Tickers) > 0 {
			if err := sched.RegisterDigest(cfg.Digest.Cron); err != nil {
				log.Fatalf("[FATAL] register digest: %v", err)
			}
			sched.Start()
			defer sched.Stop()

			if os.Getenv("RUN_ON_START") == "true" {
				log.Println("[INFO] RUN_ON_START enabled, sending digest now")
				go sched.RunDigestNow()
			}
		}
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	log.Println("[INFO] InvestSuggest is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		log.Printf("[ERROR] HTTP server: %v", err)
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] HTTP server shutdown: %v", err)
	}
	log.Println("[INFO] InvestSuggest stopped")
}

// demoFetcher serves synthetic five-year histories for offline use.
func demoFetcher() *collector.MockFetcher {
	days := collector.HistoryYears * 252
	return &collector.MockFetcher{Series: map[string]model.PriceSeries{
		"DEMO":   collector.GenerateSeries("DEMO", 100, 0.0004, days),
		"FLAT":   collector.GenerateSeries("FLAT", 250, 0, days),
		"SLUMP":  collector.GenerateSeries("SLUMP", 400, -0.0003, days),
		"RECENT": collector.GenerateSeries("RECENT", 20, 0.001, 120),
	}}
}
