package api

// MarketsResponse from GET /markets
type MarketsResponse struct {
	Markets []APIMarket `json:"markets"`
	Cursor  string      `json:"cursor"`
}

// APIMarket represents a market from the exchange API.
type APIMarket struct {
	Ticker   string `json:"ticker"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Status   string `json:"status"`

	// Resolution rules (single-market responses only)
	RulesPrimary   string `json:"rules_primary"`
	RulesSecondary string `json:"rules_secondary"`

	// Prices in cents
	YesBid    int `json:"yes_bid"`
	YesAsk    int `json:"yes_ask"`
	LastPrice int `json:"last_price"`

	Volume       int64 `json:"volume"`
	OpenInterest int64 `json:"open_interest"`

	// Timestamps (ISO 8601)
	OpenTime       string `json:"open_time"`
	CloseTime      string `json:"close_time"`
	ExpirationTime string `json:"expiration_time"`
}

// SingleMarketResponse from GET /markets/{ticker}
type SingleMarketResponse struct {
	Market APIMarket `json:"market"`
}

// OrderbookResponse from GET /markets/{ticker}/orderbook
type OrderbookResponse struct {
	Orderbook APIOrderbook `json:"orderbook"`
}

// APIOrderbook holds resting buy orders per side as [price_cents, quantity]
// pairs. There are no sell levels: selling YES is buying NO.
type APIOrderbook struct {
	Yes [][]int `json:"yes"`
	No  [][]int `json:"no"`
}

// CandlesticksResponse from GET /series/{series}/markets/{ticker}/candlesticks
type CandlesticksResponse struct {
	Candlesticks []APICandlestick `json:"candlesticks"`
}

// APICandlestick is one aggregation period. Price fields are absent when
// no trade occurred in the period.
type APICandlestick struct {
	EndPeriodTS  int64          `json:"end_period_ts"` // seconds since epoch
	Price        APICandlePrice `json:"price"`
	Volume       int64          `json:"volume"`
	OpenInterest int64          `json:"open_interest"`
}

// APICandlePrice holds the OHLC prices of one period, in cents.
type APICandlePrice struct {
	Open  *int `json:"open"`
	High  *int `json:"high"`
	Low   *int `json:"low"`
	Close *int `json:"close"`
}
