// Command marketwatch streams live ticker updates for a set of markets.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/gatallahx/before-you-bet/internal/auth"
	"github.com/gatallahx/before-you-bet/internal/config"
	"github.com/gatallahx/before-you-bet/internal/stream"
)

func main() {
	configPath := flag.String("config", "configs/betcheck.yaml", "path to config file")
	tickers := flag.String("tickers", "", "comma-separated market tickers to watch")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	watch := splitTickers(*tickers)
	if len(watch) == 0 {
		logger.Error("no tickers given, use -tickers A,B,C")
		os.Exit(2)
	}

	var creds *auth.Credentials
	if cfg.API.PrivateKeyB64 != "" {
		creds, err = auth.LoadCredentialsBase64(cfg.API.KeyID, cfg.API.PrivateKeyB64)
	} else {
		creds, err = auth.LoadCredentials(cfg.API.KeyID, cfg.API.PrivateKeyPath)
	}
	if err != nil {
		logger.Error("failed to load credentials", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	client := stream.New(stream.DefaultConfig(cfg.API.WSURL, watch), creds, logger)
	if err := client.Connect(ctx); err != nil {
		logger.Error("failed to connect", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	logger.Info("watching markets", "tickers", watch)

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-client.Errors():
			logger.Error("stream error", "error", err)
			return
		case u := <-client.Updates():
			logger.Info("ticker",
				"market", u.Ticker,
				"yes_bid", u.YesBid,
				"yes_ask", u.YesAsk,
				"last", u.LastPrice,
				"volume", u.Volume,
				"oi", u.OpenInterest,
			)
		}
	}
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
