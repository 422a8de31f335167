package model

import "time"

// QuoteVariant discriminates between the two quote shapes the exchange
// serves: the market-list summary and the single-market detail (which
// additionally carries resolution rules).
type QuoteVariant string

const (
	QuoteSummary  QuoteVariant = "summary"
	QuoteDetailed QuoteVariant = "detailed"
)

// Quote is the canonical view of one binary market's current prices.
// Prices are YES-side cents in [0,100]; NO is implicitly 100 - YES.
type Quote struct {
	Ticker  string       `json:"ticker"`
	Title   string       `json:"title"`
	Variant QuoteVariant `json:"variant"`

	// Resolution rules, present on the detailed variant only.
	RulesPrimary   string `json:"rules_primary,omitempty"`
	RulesSecondary string `json:"rules_secondary,omitempty"`

	YesBid int `json:"yes_bid"` // Best YES bid (cents)
	YesAsk int `json:"yes_ask"` // Best YES ask (cents)

	Volume       int64 `json:"volume"`
	OpenInterest int64 `json:"open_interest"`

	CloseTime      time.Time `json:"close_time"`
	ExpirationTime time.Time `json:"expiration_time"`
}

// Spread returns the bid-ask spread in cents.
func (q Quote) Spread() int {
	return q.YesAsk - q.YesBid
}

// ImpliedProbability returns the market's own probability view, taken as
// the YES mid price expressed as a fraction.
func (q Quote) ImpliedProbability() float64 {
	return float64(q.YesBid+q.YesAsk) / 2 / 100
}

// Validate checks the price invariants: both sides in [0,100], ask >= bid.
func (q Quote) Validate() error {
	if q.YesBid < 0 || q.YesBid > 100 {
		return &InvalidInputError{Field: "yes_bid", Reason: "must be in [0,100]"}
	}
	if q.YesAsk < 0 || q.YesAsk > 100 {
		return &InvalidInputError{Field: "yes_ask", Reason: "must be in [0,100]"}
	}
	if q.YesAsk < q.YesBid {
		return &InvalidInputError{Field: "yes_ask", Reason: "ask below bid"}
	}
	return nil
}

// RawCandle is one per-period price record as returned by the exchange,
// before normalization. Absent prices mean no trade occurred.
type RawCandle struct {
	EndPeriod    time.Time
	Open         *int // cents, nil if absent
	High         *int
	Low          *int
	Close        *int
	Volume       int64
	OpenInterest int64
}

// Candle is a normalized OHLC period. All prices are present after
// normalization (missing fields were back-filled or the period dropped).
type Candle struct {
	EndPeriod time.Time `json:"end_period"`
	Open      int       `json:"open"`
	High      int       `json:"high"`
	Low       int       `json:"low"`
	Close     int       `json:"close"`
	Volume    int64     `json:"volume"`
}

// PriceHistory is the normalized candle sequence for one market plus the
// window-wide deltas. Candles are chronological with unique timestamps.
type PriceHistory struct {
	Ticker  string   `json:"ticker"`
	Title   string   `json:"title"`
	Days    int      `json:"days"`
	Candles []Candle `json:"candles"`

	// Close-to-close change over the surviving candles; both zero with
	// fewer than two candles so consumers never null-check.
	Change30d int     `json:"price_change_30d"`
	ChangePct float64 `json:"price_change_pct"`
}

// Side is the contract side a recommendation refers to.
type Side string

const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// Recommendation is the discrete action derived from the metrics bundle.
type Recommendation string

const (
	RecommendBuyYes Recommendation = "buy_yes"
	RecommendBuyNo  Recommendation = "buy_no"
	RecommendPass   Recommendation = "pass"
)

// DecisionMetrics is the pure-computation output of a quote plus a
// user-supplied probability estimate. Monetary values in cents.
type DecisionMetrics struct {
	SpreadCost      int     `json:"spread_cost"`
	TrueProbability float64 `json:"true_probability"`

	// Alpha is the edge over the market-implied probability in
	// percentage points; positive means YES looks underpriced.
	Alpha float64 `json:"alpha"`

	// ExpectedValue is per contract, on the favored side at the price
	// actually available there.
	ExpectedValue float64 `json:"expected_value"`

	// KellyFraction is the log-growth-optimal bankroll fraction,
	// clamped to [0,1]; 0 means no edge, never a short.
	KellyFraction float64 `json:"kelly_fraction"`

	Side           Side           `json:"side"`
	Recommendation Recommendation `json:"recommendation"`
}

// MarketAnalysis pairs a quote with its computed metrics.
type MarketAnalysis struct {
	Quote   Quote           `json:"market_data"`
	Metrics DecisionMetrics `json:"decision_metrics"`
}

// Estimate is the upstream probability collaborator's response. Only
// Probability feeds the metrics engine; everything else passes through to
// the presentation layer untouched.
type Estimate struct {
	Probability  float64  `json:"probability"`
	Analysis     string   `json:"analysis"`
	Reasoning    string   `json:"reasoning"`
	KeyTakeaways []string `json:"key_takeaways"`
	Risks        []string `json:"risks"`
}

// EstimatedAnalysis is a market analysis driven by an external estimate.
type EstimatedAnalysis struct {
	MarketAnalysis
	Estimate Estimate `json:"estimate"`
}

// MarketView is one market's complete snapshot entry: current quote plus
// normalized history.
type MarketView struct {
	Quote   Quote        `json:"market_data"`
	History PriceHistory `json:"history"`
}

// TickerUpdate is a live price/volume update from the streaming feed.
type TickerUpdate struct {
	Ticker       string    `json:"ticker"`
	YesBid       int       `json:"yes_bid"`
	YesAsk       int       `json:"yes_ask"`
	LastPrice    int       `json:"last_price"`
	Volume       int64     `json:"volume"`
	OpenInterest int64     `json:"open_interest"`
	ReceivedAt   time.Time `json:"received_at"`
}
