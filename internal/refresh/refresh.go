// Package refresh periodically re-snapshots a set of markets and hands
// the per-market results to a handler, feeding consumers that want a
// steadily updated view without driving fetches themselves.
package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gatallahx/before-you-bet/internal/analysis"
	"github.com/gatallahx/before-you-bet/internal/model"
)

// ViewHandler receives refreshed market views.
type ViewHandler interface {
	HandleView(view model.MarketView) error
}

// ViewHandlerFunc is a function adapter for ViewHandler.
type ViewHandlerFunc func(model.MarketView) error

func (f ViewHandlerFunc) HandleView(v model.MarketView) error {
	return f(v)
}

// Config holds refresher configuration.
type Config struct {
	Interval time.Duration // refresh interval (default: 15m)
	Tickers  []string      // markets to refresh
	Days     int           // history window per market
}

// DefaultConfig returns sensible defaults for the given tickers.
func DefaultConfig(tickers []string) Config {
	return Config{
		Interval: 15 * time.Minute,
		Tickers:  tickers,
		Days:     analysis.DefaultHistoryDays,
	}
}

// Refresher periodically fetches market views through the analysis
// service. Refresh cycles are best-effort per market: one market's
// failure never withholds the others from the handler.
type Refresher struct {
	cfg     Config
	svc     *analysis.Service
	handler ViewHandler
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Refresher.
func New(cfg Config, svc *analysis.Service, handler ViewHandler, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		cfg:     cfg,
		svc:     svc,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the refresh loop.
func (r *Refresher) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.run()

	r.logger.Info("refresher started",
		"interval", r.cfg.Interval,
		"markets", len(r.cfg.Tickers),
	)

	return nil
}

// Stop gracefully shuts down the refresher.
func (r *Refresher) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("refresher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main refresh loop.
func (r *Refresher) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	// Refresh immediately on start.
	r.refreshAll()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.refreshAll()
		}
	}
}

// refreshAll fetches every configured market and forwards the successes.
func (r *Refresher) refreshAll() {
	start := time.Now()

	results := r.svc.SnapshotEach(r.ctx, r.cfg.Tickers, r.cfg.Days)

	var fetched, failed int
	for _, res := range results {
		if res.Err != nil {
			r.logger.Warn("failed to refresh market",
				"ticker", res.Item,
				"err", res.Err,
			)
			failed++
			continue
		}

		if r.handler != nil {
			if err := r.handler.HandleView(res.Value); err != nil {
				r.logger.Warn("view handler failed",
					"ticker", res.Item,
					"err", err,
				)
				failed++
				continue
			}
		}
		fetched++
	}

	r.logger.Info("refresh cycle complete",
		"markets", len(r.cfg.Tickers),
		"fetched", fetched,
		"failed", failed,
		"duration", time.Since(start),
	)
}
