package source

import (
	"context"
	"sort"

	"github.com/gatallahx/before-you-bet/internal/api"
	"github.com/gatallahx/before-you-bet/internal/model"
)

// Fixture is an in-memory Source for tests and offline runs. Unknown
// tickers fail the same way the real client does.
type Fixture struct {
	Quotes    map[string]model.Quote
	Histories map[string][]model.RawCandle

	// Errs overrides per-ticker results with an error, for failure-path
	// testing.
	Errs map[string]error
}

var _ Source = (*Fixture)(nil)

// NewFixture creates an empty fixture.
func NewFixture() *Fixture {
	return &Fixture{
		Quotes:    make(map[string]model.Quote),
		Histories: make(map[string][]model.RawCandle),
		Errs:      make(map[string]error),
	}
}

func (f *Fixture) GetQuote(ctx context.Context, ticker string) (model.Quote, error) {
	if err := f.Errs[ticker]; err != nil {
		return model.Quote{}, err
	}
	q, ok := f.Quotes[ticker]
	if !ok {
		return model.Quote{}, &api.NotFoundError{Ticker: ticker}
	}
	return q, nil
}

func (f *Fixture) GetHistory(ctx context.Context, ticker string, windowDays int) ([]model.RawCandle, error) {
	if windowDays < 1 {
		return nil, &model.InvalidInputError{Field: "window_days", Reason: "must be positive"}
	}
	if err := f.Errs[ticker]; err != nil {
		return nil, err
	}
	// No trading activity is an empty record set, not an error.
	return f.Histories[ticker], nil
}

func (f *Fixture) ListMarkets(ctx context.Context, limit int) ([]model.Quote, error) {
	if limit < 1 {
		return nil, &model.InvalidInputError{Field: "limit", Reason: "must be positive"}
	}

	quotes := make([]model.Quote, 0, len(f.Quotes))
	for _, q := range f.Quotes {
		quotes = append(quotes, q)
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		if quotes[i].Volume != quotes[j].Volume {
			return quotes[i].Volume > quotes[j].Volume
		}
		return quotes[i].Ticker < quotes[j].Ticker
	})

	if len(quotes) > limit {
		quotes = quotes[:limit]
	}
	return quotes, nil
}
