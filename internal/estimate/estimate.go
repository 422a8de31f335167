// Package estimate consumes the external probability-estimation service.
// Only the probability field feeds the metrics engine; analysis text,
// takeaways and risks pass through to the presentation layer untouched.
package estimate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gatallahx/before-you-bet/internal/api"
	"github.com/gatallahx/before-you-bet/internal/model"
)

// Estimator produces a probability estimate for one market.
type Estimator interface {
	Estimate(ctx context.Context, ticker string) (model.Estimate, error)
}

// Client consumes an estimator service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Estimator = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates an estimator client for the given service base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // estimates run research upstream
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// Estimate fetches the collaborator's estimate for ticker. A probability
// outside [0,1] is a malformed upstream response, not caller input.
func (c *Client) Estimate(ctx context.Context, ticker string) (model.Estimate, error) {
	reqURL := c.baseURL + "/estimate/" + url.PathEscape(ticker)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return model.Estimate{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Estimate{}, &api.UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Estimate{}, &api.UpstreamError{Message: "read response: " + err.Error()}
	}

	if resp.StatusCode == http.StatusNotFound {
		return model.Estimate{}, &api.NotFoundError{Ticker: ticker}
	}
	if resp.StatusCode >= 400 {
		return model.Estimate{}, &api.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	var est model.Estimate
	if err := json.Unmarshal(body, &est); err != nil {
		return model.Estimate{}, &api.UpstreamError{Message: "malformed response: " + err.Error(), Body: body}
	}

	if est.Probability < 0 || est.Probability > 1 {
		return model.Estimate{}, &api.UpstreamError{
			Message: fmt.Sprintf("estimate probability %v outside [0,1]", est.Probability),
		}
	}

	c.logger.Debug("estimate received",
		"ticker", ticker,
		"probability", est.Probability,
		"duration", time.Since(start),
	)

	return est, nil
}
