// Package source defines the market data capability interface and a
// fixture implementation. Consumers receive a Source at construction;
// there is no runtime toggle inside business logic.
package source

import (
	"context"

	"github.com/gatallahx/before-you-bet/internal/api"
	"github.com/gatallahx/before-you-bet/internal/model"
)

// Source provides quotes, raw history, and market listings for one
// exchange. The real implementation is the signed REST client; tests and
// offline runs inject a Fixture.
type Source interface {
	GetQuote(ctx context.Context, ticker string) (model.Quote, error)
	GetHistory(ctx context.Context, ticker string, windowDays int) ([]model.RawCandle, error)
	ListMarkets(ctx context.Context, limit int) ([]model.Quote, error)
}

var _ Source = (*api.Client)(nil)
