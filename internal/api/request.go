package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gatallahx/before-you-bet/internal/telemetry"
)

// doRequest performs one signed HTTP request. The signature covers the
// full request path including the encoded query, with a timestamp taken
// immediately before signing; signatures are single-use by construction.
// ticker is used only to classify 404s.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, endpoint, ticker string) ([]byte, error) {
	signedPath := path
	if len(query) > 0 {
		signedPath += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+signedPath, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	if c.creds != nil {
		headers, err := c.creds.SignRequest(method, signedPath)
		if err != nil {
			return nil, err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		telemetry.APIRequests.WithLabelValues(endpoint, "transport_error").Inc()
		return nil, &UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		telemetry.APIRequests.WithLabelValues(endpoint, "transport_error").Inc()
		return nil, &UpstreamError{Message: "read response: " + err.Error()}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		telemetry.APIRequests.WithLabelValues(endpoint, "not_found").Inc()
		return nil, &NotFoundError{Ticker: ticker}
	case resp.StatusCode >= 400:
		telemetry.APIRequests.WithLabelValues(endpoint, "upstream_error").Inc()
		c.logger.Debug("exchange request failed",
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"path", path,
		)
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	telemetry.APIRequests.WithLabelValues(endpoint, "ok").Inc()
	return body, nil
}

// get performs a signed GET and decodes the JSON response. A payload that
// does not decode is classified as an upstream error.
func (c *Client) get(ctx context.Context, path string, query url.Values, endpoint, ticker string, result any) error {
	body, err := c.doRequest(ctx, http.MethodGet, path, query, endpoint, ticker)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return &UpstreamError{Message: "malformed response: " + err.Error(), Body: body}
	}

	return nil
}
