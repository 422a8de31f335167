// Package history shapes raw per-period price records into a canonical
// candle sequence with window-wide deltas.
package history

import (
	"sort"

	"github.com/gatallahx/before-you-bet/internal/model"
)

// Normalize filters and back-fills raw records into a PriceHistory.
//
// Periods without a recorded close are dropped (no trade occurred). For a
// surviving period, a missing open falls back to the previous surviving
// close (the first candle falls back to its own close) and missing
// high/low fall back to the close. Candles come out chronological with
// unique timestamps.
//
// Change30d and ChangePct are computed strictly from the first and last
// surviving closes. With fewer than two candles, or a zero first close
// for the percentage, both are zero rather than undefined.
func Normalize(raw []model.RawCandle, ticker, title string, days int) model.PriceHistory {
	records := make([]model.RawCandle, len(raw))
	copy(records, raw)

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].EndPeriod.Before(records[j].EndPeriod)
	})

	candles := make([]model.Candle, 0, len(records))
	prevClose := 0

	for _, r := range records {
		if r.Close == nil {
			continue
		}
		if n := len(candles); n > 0 && candles[n-1].EndPeriod.Equal(r.EndPeriod) {
			// Duplicate period: keep the first record.
			continue
		}

		close := *r.Close

		open := close
		if r.Open != nil {
			open = *r.Open
		} else if len(candles) > 0 {
			open = prevClose
		}

		high := close
		if r.High != nil {
			high = *r.High
		}
		low := close
		if r.Low != nil {
			low = *r.Low
		}

		candles = append(candles, model.Candle{
			EndPeriod: r.EndPeriod,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    r.Volume,
		})
		prevClose = close
	}

	var change int
	var changePct float64
	if len(candles) >= 2 {
		first := candles[0].Close
		last := candles[len(candles)-1].Close
		change = last - first
		if first > 0 {
			changePct = float64(change) / float64(first) * 100
		}
	}

	return model.PriceHistory{
		Ticker:    ticker,
		Title:     title,
		Days:      days,
		Candles:   candles,
		Change30d: change,
		ChangePct: changePct,
	}
}
