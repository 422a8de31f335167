package api

import "fmt"

// NotFoundError reports that a ticker does not exist upstream. It is
// surfaced immediately and never retried.
type NotFoundError struct {
	Ticker string
}

func (e *NotFoundError) Error() string {
	if e.Ticker == "" {
		return "exchange resource not found"
	}
	return fmt.Sprintf("market %s not found", e.Ticker)
}

// UpstreamError reports a non-2xx response (other than not-found) or a
// malformed payload. The fetch orchestrator treats it as transient.
type UpstreamError struct {
	StatusCode int // 0 for transport or decode failures
	Message    string
	Body       []byte
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return "exchange upstream error: " + e.Message
	}
	return fmt.Sprintf("exchange upstream error %d: %s", e.StatusCode, e.Message)
}

// Retryable marks the error for bounded retry; permanent failures carry
// their own types.
func (e *UpstreamError) Retryable() bool { return true }
