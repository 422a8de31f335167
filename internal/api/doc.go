// Package api provides the signed REST client for the exchange.
//
// Endpoints:
//   - GET /markets?limit=N&status=open
//   - GET /markets/{ticker} and /markets/{ticker}/orderbook
//   - GET /series/{series}/markets/{ticker}/candlesticks
//
// Every request carries KALSHI-ACCESS-KEY, KALSHI-ACCESS-SIGNATURE and
// KALSHI-ACCESS-TIMESTAMP headers produced by internal/auth.
package api
