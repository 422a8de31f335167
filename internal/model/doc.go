// Package model defines the canonical value types exchanged between the
// data-access layer and its consumers: quotes, candles, price histories,
// decision metrics, and the upstream estimate passthrough.
//
// All entities are immutable value objects owned by their caller; each
// fetch produces fresh instances and nothing here is shared mutable state.
// Prices are YES-side cents (0-100) and timestamps serialize as RFC 3339.
package model
