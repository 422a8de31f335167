// Package stream delivers live ticker updates over the exchange
// WebSocket, authenticated with the same signed-header scheme as REST.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gatallahx/before-you-bet/internal/auth"
	"github.com/gatallahx/before-you-bet/internal/model"
)

var (
	ErrNotConnected  = errors.New("stream: not connected")
	ErrAlreadyClosed = errors.New("stream: already closed")
)

// Config holds streaming connection settings.
type Config struct {
	URL          string        // WebSocket endpoint (wss://...)
	Tickers      []string      // market tickers to subscribe to
	BufferSize   int           // update channel capacity
	WriteTimeout time.Duration
	PingTimeout  time.Duration // stale-connection threshold
}

// DefaultConfig returns sensible defaults for the given tickers.
func DefaultConfig(url string, tickers []string) Config {
	return Config{
		URL:          url,
		Tickers:      tickers,
		BufferSize:   256,
		WriteTimeout: 5 * time.Second,
		PingTimeout:  60 * time.Second,
	}
}

// Client is a single authenticated WebSocket connection subscribed to the
// ticker channel for a fixed set of markets.
type Client struct {
	cfg    Config
	creds  *auth.Credentials
	logger *slog.Logger

	conn *websocket.Conn

	updates chan model.TickerUpdate
	errs    chan error
	done    chan struct{}

	writeMu sync.Mutex

	mu         sync.RWMutex
	connected  bool
	closed     bool
	lastPingAt time.Time
}

// New creates a streaming client. Connect must be called before updates
// flow.
func New(cfg Config, creds *auth.Credentials, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 256
	}

	return &Client{
		cfg:     cfg,
		creds:   creds,
		logger:  logger,
		updates: make(chan model.TickerUpdate, cfg.BufferSize),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
}

// subscribeCommand is the wire format of a channel subscription.
type subscribeCommand struct {
	ID     int             `json:"id"`
	Cmd    string          `json:"cmd"`
	Params subscribeParams `json:"params"`
}

type subscribeParams struct {
	Channels      []string `json:"channels"`
	MarketTickers []string `json:"market_tickers"`
}

// tickerMessage is the wire format of one ticker channel message.
type tickerMessage struct {
	Type string `json:"type"`
	Msg  struct {
		MarketTicker string `json:"market_ticker"`
		YesBid       int    `json:"yes_bid"`
		YesAsk       int    `json:"yes_ask"`
		Price        int    `json:"price"`
		Volume       int64  `json:"volume"`
		OpenInterest int64  `json:"open_interest"`
	} `json:"msg"`
}

// Connect dials the endpoint with signed headers and subscribes to the
// ticker channel for the configured markets.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrAlreadyClosed
	}
	c.mu.Unlock()

	header := http.Header{}
	header.Set("Accept", "application/json")
	if c.creds != nil {
		signed, err := c.creds.SignWebSocket()
		if err != nil {
			return err
		}
		for k, v := range signed {
			header.Set(k, v)
		}
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.lastPingAt = time.Now()
	c.mu.Unlock()

	conn.SetPingHandler(func(data string) error {
		c.mu.Lock()
		c.lastPingAt = time.Now()
		c.mu.Unlock()
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})
	conn.SetPongHandler(func(string) error {
		c.mu.Lock()
		c.lastPingAt = time.Now()
		c.mu.Unlock()
		return nil
	})

	if err := c.subscribe(); err != nil {
		c.Close()
		return err
	}

	go c.readLoop()
	go c.heartbeatLoop()

	c.logger.Debug("stream connected", "url", c.cfg.URL, "tickers", len(c.cfg.Tickers))

	return nil
}

// subscribe sends the ticker channel subscription for the configured
// markets.
func (c *Client) subscribe() error {
	cmd := subscribeCommand{
		ID:  1,
		Cmd: "subscribe",
		Params: subscribeParams{
			Channels:      []string{"ticker"},
			MarketTickers: c.cfg.Tickers,
		},
	}

	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	return c.send(data)
}

func (c *Client) send(data []byte) error {
	c.mu.RLock()
	if !c.connected {
		c.mu.RUnlock()
		return ErrNotConnected
	}
	c.mu.RUnlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Updates returns the channel of live ticker updates.
func (c *Client) Updates() <-chan model.TickerUpdate {
	return c.updates
}

// Errors returns the channel of connection errors.
func (c *Client) Errors() <-chan error {
	return c.errs
}

// IsConnected reports the current connection state.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Close gracefully closes the connection. No background work outlives it.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.connected = false
	conn := c.conn
	c.mu.Unlock()

	close(c.done)

	if conn != nil {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		return conn.Close()
	}

	return nil
}

// readLoop parses incoming messages and forwards ticker updates.
func (c *Client) readLoop() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}()

	for {
		select {
		case <-c.done:
			return
		default:
		}

		_, data, err := c.conn.ReadMessage()
		receivedAt := time.Now()

		if err != nil {
			select {
			case <-c.done:
				return
			default:
				select {
				case c.errs <- err:
				default:
				}
				return
			}
		}

		var msg tickerMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "ticker" {
			// Command responses and unknown channels are skipped.
			continue
		}

		update := model.TickerUpdate{
			Ticker:       msg.Msg.MarketTicker,
			YesBid:       msg.Msg.YesBid,
			YesAsk:       msg.Msg.YesAsk,
			LastPrice:    msg.Msg.Price,
			Volume:       msg.Msg.Volume,
			OpenInterest: msg.Msg.OpenInterest,
			ReceivedAt:   receivedAt,
		}

		select {
		case c.updates <- update:
		case <-c.done:
			return
		default:
			c.logger.Warn("update buffer full, dropping update", "ticker", update.Ticker)
		}
	}
}

// heartbeatLoop keeps the connection alive and flags stale connections.
func (c *Client) heartbeatLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.RLock()
			conn := c.conn
			lastPing := c.lastPingAt
			c.mu.RUnlock()

			if conn != nil {
				deadline := time.Now().Add(c.cfg.WriteTimeout)
				if err := conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
					c.logger.Debug("failed to send ping", "error", err)
				}
			}

			if c.cfg.PingTimeout > 0 && time.Since(lastPing) > c.cfg.PingTimeout {
				c.logger.Warn("no ping received, connection stale",
					"last_ping", lastPing,
					"timeout", c.cfg.PingTimeout,
				)
				select {
				case c.errs <- errors.New("stream: stale connection"):
				default:
				}
				return
			}
		}
	}
}
