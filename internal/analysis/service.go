// Package analysis is the caller-facing service: it drives retried,
// signed fetches through the data source, shapes histories, and derives
// decision metrics per market.
package analysis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gatallahx/before-you-bet/internal/decision"
	"github.com/gatallahx/before-you-bet/internal/estimate"
	"github.com/gatallahx/before-you-bet/internal/fetch"
	"github.com/gatallahx/before-you-bet/internal/history"
	"github.com/gatallahx/before-you-bet/internal/model"
	"github.com/gatallahx/before-you-bet/internal/source"
)

// DefaultHistoryDays is the standard history window.
const DefaultHistoryDays = 30

// Service orchestrates the data source, retry policy, history shaping and
// metrics engine. All returned entities are fresh value objects owned by
// the caller.
type Service struct {
	src         source.Source
	est         estimate.Estimator // nil when no estimator is configured
	logger      *slog.Logger
	policy      fetch.Policy
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// New creates an analysis service over the given data source.
func New(src source.Source, opts ...Option) *Service {
	s := &Service{
		src:         src,
		logger:      slog.Default(),
		policy:      fetch.DefaultPolicy(),
		concurrency: 10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithPolicy sets the retry policy applied to every single-resource fetch.
func WithPolicy(p fetch.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithConcurrency bounds parallel fetches within a batch.
func WithConcurrency(n int) Option {
	return func(s *Service) { s.concurrency = n }
}

// WithEstimator attaches the external probability collaborator.
func WithEstimator(est estimate.Estimator) Option {
	return func(s *Service) { s.est = est }
}

// Quote fetches one market's current quote with bounded retry.
func (s *Service) Quote(ctx context.Context, ticker string) (model.Quote, error) {
	return fetch.Retry(ctx, s.policy, func(ctx context.Context) (model.Quote, error) {
		return s.src.GetQuote(ctx, ticker)
	})
}

// Analyze fetches the quote and computes decision metrics from the
// caller's probability estimate.
func (s *Service) Analyze(ctx context.Context, ticker string, trueProb float64) (model.MarketAnalysis, error) {
	quote, err := s.Quote(ctx, ticker)
	if err != nil {
		return model.MarketAnalysis{}, err
	}

	metrics, err := decision.ComputeMetrics(quote, trueProb)
	if err != nil {
		return model.MarketAnalysis{}, err
	}

	return model.MarketAnalysis{Quote: quote, Metrics: metrics}, nil
}

// AnalyzeEstimated asks the external estimator for the probability and
// analyzes the market with it, passing the rest of the estimate through.
func (s *Service) AnalyzeEstimated(ctx context.Context, ticker string) (model.EstimatedAnalysis, error) {
	if s.est == nil {
		return model.EstimatedAnalysis{}, errors.New("no estimator configured")
	}

	est, err := s.est.Estimate(ctx, ticker)
	if err != nil {
		return model.EstimatedAnalysis{}, err
	}

	analysis, err := s.Analyze(ctx, ticker, est.Probability)
	if err != nil {
		return model.EstimatedAnalysis{}, err
	}

	return model.EstimatedAnalysis{MarketAnalysis: analysis, Estimate: est}, nil
}

// History fetches and normalizes a market's candle history. The quote is
// fetched alongside to carry the market title.
func (s *Service) History(ctx context.Context, ticker string, days int) (model.PriceHistory, error) {
	quote, err := s.Quote(ctx, ticker)
	if err != nil {
		return model.PriceHistory{}, err
	}

	raw, err := fetch.Retry(ctx, s.policy, func(ctx context.Context) ([]model.RawCandle, error) {
		return s.src.GetHistory(ctx, ticker, days)
	})
	if err != nil {
		return model.PriceHistory{}, err
	}

	return history.Normalize(raw, ticker, quote.Title, days), nil
}

// TopMarkets lists up to limit open markets in the exchange's own
// volume-descending order.
func (s *Service) TopMarkets(ctx context.Context, limit int) ([]model.Quote, error) {
	return fetch.Retry(ctx, s.policy, func(ctx context.Context) ([]model.Quote, error) {
		return s.src.ListMarkets(ctx, limit)
	})
}

// Snapshot fetches quote plus history for every ticker, all-or-nothing:
// the batch fails as a whole if any market's fetch ultimately fails, so
// downstream consumers always see a complete, consistent snapshot. The
// result order matches tickers.
func (s *Service) Snapshot(ctx context.Context, tickers []string, days int) ([]model.MarketView, error) {
	start := time.Now()

	views, err := fetch.All(ctx, tickers, s.concurrency, func(ctx context.Context, ticker string) (model.MarketView, error) {
		return s.fetchView(ctx, ticker, days)
	})
	if err != nil {
		var batchErr *fetch.BatchError
		if errors.As(err, &batchErr) {
			s.logger.Warn("snapshot failed",
				"batch_id", batchErr.BatchID,
				"ticker", batchErr.Item,
				"err", batchErr.Err,
			)
		}
		return nil, err
	}

	s.logger.Info("snapshot complete",
		"markets", len(views),
		"duration", time.Since(start),
	)

	return views, nil
}

// SnapshotEach is the best-effort variant of Snapshot for callers that
// tolerate partial data: every market's outcome is reported individually.
func (s *Service) SnapshotEach(ctx context.Context, tickers []string, days int) []fetch.Result[model.MarketView] {
	return fetch.Each(ctx, tickers, s.concurrency, func(ctx context.Context, ticker string) (model.MarketView, error) {
		return s.fetchView(ctx, ticker, days)
	})
}

// fetchView retrieves one market's quote and normalized history, each
// under its own bounded retry.
func (s *Service) fetchView(ctx context.Context, ticker string, days int) (model.MarketView, error) {
	quote, err := s.Quote(ctx, ticker)
	if err != nil {
		return model.MarketView{}, err
	}

	raw, err := fetch.Retry(ctx, s.policy, func(ctx context.Context) ([]model.RawCandle, error) {
		return s.src.GetHistory(ctx, ticker, days)
	})
	if err != nil {
		return model.MarketView{}, err
	}

	return model.MarketView{
		Quote:   quote,
		History: history.Normalize(raw, ticker, quote.Title, days),
	}, nil
}
