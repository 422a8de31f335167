package api

import (
	"time"

	"github.com/gatallahx/before-you-bet/internal/model"
)

// ParseTimestamp parses an ISO 8601 timestamp. Returns the zero time for
// empty or invalid input.
func ParseTimestamp(iso string) time.Time {
	if iso == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		// Try without timezone
		t, err = time.Parse("2006-01-02T15:04:05", iso)
		if err != nil {
			return time.Time{}
		}
	}

	return t
}

// ToQuote converts an APIMarket to the canonical quote entity.
func (m *APIMarket) ToQuote(variant model.QuoteVariant) model.Quote {
	exp := m.ExpirationTime
	if exp == "" {
		exp = m.CloseTime
	}

	return model.Quote{
		Ticker:         m.Ticker,
		Title:          m.Title,
		Variant:        variant,
		RulesPrimary:   m.RulesPrimary,
		RulesSecondary: m.RulesSecondary,
		YesBid:         m.YesBid,
		YesAsk:         m.YesAsk,
		Volume:         m.Volume,
		OpenInterest:   m.OpenInterest,
		CloseTime:      ParseTimestamp(m.CloseTime),
		ExpirationTime: ParseTimestamp(exp),
	}
}

// BestYesBid returns the highest YES buy price, or ok=false if the YES
// side is empty.
func (ob *APIOrderbook) BestYesBid() (price int, ok bool) {
	return bestLevel(ob.Yes)
}

// BestYesAsk returns the lowest effective YES sell price, or ok=false if
// the NO side is empty. The book carries only buy orders per side, so the
// best YES ask is 100 minus the best NO bid.
func (ob *APIOrderbook) BestYesAsk() (price int, ok bool) {
	noBid, ok := bestLevel(ob.No)
	if !ok {
		return 0, false
	}
	return 100 - noBid, true
}

// bestLevel returns the highest price among [price, qty] levels. Levels
// are not assumed to arrive sorted.
func bestLevel(levels [][]int) (int, bool) {
	best := -1
	for _, level := range levels {
		if len(level) >= 2 && level[0] > best {
			best = level[0]
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// ToRawCandle converts an APICandlestick to the raw per-period record
// consumed by history normalization.
func (c *APICandlestick) ToRawCandle() model.RawCandle {
	return model.RawCandle{
		EndPeriod:    time.Unix(c.EndPeriodTS, 0).UTC(),
		Open:         c.Price.Open,
		High:         c.Price.High,
		Low:          c.Price.Low,
		Close:        c.Price.Close,
		Volume:       c.Volume,
		OpenInterest: c.OpenInterest,
	}
}
