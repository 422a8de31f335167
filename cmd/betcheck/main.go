// Command betcheck analyzes prediction markets from the command line:
// list top markets, fetch a quote with history, or compute decision
// metrics for a ticker and probability estimate.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/gatallahx/before-you-bet/internal/analysis"
	"github.com/gatallahx/before-you-bet/internal/api"
	"github.com/gatallahx/before-you-bet/internal/auth"
	"github.com/gatallahx/before-you-bet/internal/config"
	"github.com/gatallahx/before-you-bet/internal/estimate"
	"github.com/gatallahx/before-you-bet/internal/fetch"
	"github.com/gatallahx/before-you-bet/internal/telemetry"
	"github.com/gatallahx/before-you-bet/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/betcheck.yaml", "path to config file")
	ticker := flag.String("ticker", "", "market ticker to analyze")
	tickers := flag.String("tickers", "", "comma-separated tickers for a batch snapshot")
	prob := flag.Float64("prob", -1, "your estimated true probability (0.0-1.0)")
	days := flag.Int("days", analysis.DefaultHistoryDays, "history window in days")
	list := flag.Int("list", 0, "list the top N open markets")
	useEstimate := flag.Bool("estimate", false, "ask the estimator service for the probability")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Secrets come from the environment; a local .env is optional.
	_ = godotenv.Load()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Debug("starting betcheck",
		"version", version.Version,
		"api_url", cfg.API.BaseURL,
	)

	creds, err := loadCredentials(cfg)
	if err != nil {
		logger.Error("failed to load credentials", "error", err)
		os.Exit(1)
	}

	if cfg.Telemetry.Port > 0 {
		telemetry.Serve(fmt.Sprintf(":%d", cfg.Telemetry.Port), cfg.Telemetry.Path)
	}

	client := api.NewClient(cfg.API.BaseURL, creds,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger),
	)

	opts := []analysis.Option{
		analysis.WithLogger(logger),
		analysis.WithPolicy(fetch.Policy{
			MaxAttempts: cfg.Fetch.MaxAttempts,
			BaseDelay:   cfg.Fetch.BaseDelay,
		}),
		analysis.WithConcurrency(cfg.Fetch.Concurrency),
	}
	if cfg.Estimator.URL != "" {
		opts = append(opts, analysis.WithEstimator(estimate.NewClient(cfg.Estimator.URL,
			estimate.WithTimeout(cfg.Estimator.Timeout),
			estimate.WithLogger(logger),
		)))
	}
	svc := analysis.New(client, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch {
	case *list > 0:
		markets, err := svc.TopMarkets(ctx, *list)
		exitOn(logger, err)
		printJSON(markets)

	case *tickers != "":
		views, err := svc.Snapshot(ctx, splitTickers(*tickers), *days)
		exitOn(logger, err)
		printJSON(views)

	case *ticker != "" && *useEstimate:
		result, err := svc.AnalyzeEstimated(ctx, *ticker)
		exitOn(logger, err)
		printJSON(result)

	case *ticker != "" && *prob >= 0:
		result, err := svc.Analyze(ctx, *ticker, *prob)
		exitOn(logger, err)
		printJSON(result)

	case *ticker != "":
		hist, err := svc.History(ctx, *ticker, *days)
		exitOn(logger, err)
		printJSON(hist)

	default:
		fmt.Fprintln(os.Stderr, "usage: betcheck -list N | -ticker T [-prob P | -estimate] | -tickers A,B,C")
		flag.PrintDefaults()
		os.Exit(2)
	}
}

func loadCredentials(cfg *config.Config) (*auth.Credentials, error) {
	if cfg.API.PrivateKeyB64 != "" {
		return auth.LoadCredentialsBase64(cfg.API.KeyID, cfg.API.PrivateKeyB64)
	}
	return auth.LoadCredentials(cfg.API.KeyID, cfg.API.PrivateKeyPath)
}

func splitTickers(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, "encode output:", err)
		os.Exit(1)
	}
}

func exitOn(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("request failed", "error", err)
		os.Exit(1)
	}
}
