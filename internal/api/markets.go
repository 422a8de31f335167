package api

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gatallahx/before-you-bet/internal/model"
)

// DefaultCandlePeriod is the candlestick aggregation interval in minutes
// (1440 = daily candles).
const DefaultCandlePeriod = 1440

// GetMarket fetches a single market summary by ticker.
func (c *Client) GetMarket(ctx context.Context, ticker string) (*APIMarket, error) {
	var resp SingleMarketResponse
	if err := c.get(ctx, "/markets/"+ticker, nil, "market", ticker, &resp); err != nil {
		return nil, err
	}
	return &resp.Market, nil
}

// GetOrderbook fetches the orderbook for a market.
func (c *Client) GetOrderbook(ctx context.Context, ticker string) (*APIOrderbook, error) {
	var resp OrderbookResponse
	if err := c.get(ctx, "/markets/"+ticker+"/orderbook", nil, "orderbook", ticker, &resp); err != nil {
		return nil, err
	}
	return &resp.Orderbook, nil
}

// GetQuote fetches the market summary and order book and combines them
// into a detailed quote. Best bid/ask come from the book; a side with no
// resting orders falls back to the summary's price.
func (c *Client) GetQuote(ctx context.Context, ticker string) (model.Quote, error) {
	market, err := c.GetMarket(ctx, ticker)
	if err != nil {
		return model.Quote{}, err
	}

	ob, err := c.GetOrderbook(ctx, ticker)
	if err != nil {
		return model.Quote{}, err
	}

	quote := market.ToQuote(model.QuoteDetailed)

	if bid, ok := ob.BestYesBid(); ok {
		quote.YesBid = bid
	}
	if ask, ok := ob.BestYesAsk(); ok {
		quote.YesAsk = ask
	}

	return quote, nil
}

// GetHistory fetches raw per-period price records for the given day
// window. An instrument with no trading activity in the window yields an
// empty record set, not an error.
func (c *Client) GetHistory(ctx context.Context, ticker string, windowDays int) ([]model.RawCandle, error) {
	if windowDays < 1 {
		return nil, &model.InvalidInputError{Field: "window_days", Reason: "must be positive"}
	}

	now := time.Now()
	query := url.Values{}
	query.Set("start_ts", strconv.FormatInt(now.AddDate(0, 0, -windowDays).Unix(), 10))
	query.Set("end_ts", strconv.FormatInt(now.Unix(), 10))
	query.Set("period_interval", strconv.Itoa(DefaultCandlePeriod))

	path := "/series/" + SeriesTicker(ticker) + "/markets/" + ticker + "/candlesticks"

	var resp CandlesticksResponse
	if err := c.get(ctx, path, query, "candlesticks", ticker, &resp); err != nil {
		return nil, err
	}

	raw := make([]model.RawCandle, 0, len(resp.Candlesticks))
	for i := range resp.Candlesticks {
		raw = append(raw, resp.Candlesticks[i].ToRawCandle())
	}

	return raw, nil
}

// ListMarkets fetches up to limit open markets, volume-descending. Limits
// above the exchange's page size are satisfied by the single call's native
// cap; there is no pagination.
func (c *Client) ListMarkets(ctx context.Context, limit int) ([]model.Quote, error) {
	if limit < 1 {
		return nil, &model.InvalidInputError{Field: "limit", Reason: "must be positive"}
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("status", "open")

	var resp MarketsResponse
	if err := c.get(ctx, "/markets", query, "markets", "", &resp); err != nil {
		return nil, err
	}

	quotes := make([]model.Quote, 0, len(resp.Markets))
	for i := range resp.Markets {
		quotes = append(quotes, resp.Markets[i].ToQuote(model.QuoteSummary))
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Volume > quotes[j].Volume
	})

	if len(quotes) > limit {
		quotes = quotes[:limit]
	}

	return quotes, nil
}

// SeriesTicker derives the series ticker from a market ticker by
// truncating to its non-instrument-specific prefix
// ("KXBTC-25DEC31-100000" -> "KXBTC").
func SeriesTicker(ticker string) string {
	if i := strings.IndexByte(ticker, '-'); i > 0 {
		return ticker[:i]
	}
	return ticker
}
