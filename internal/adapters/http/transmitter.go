// Package http implements the transmitter port over the ingestion service's
// track endpoint: gzip-compressed newline-delimited JSON envelopes, with the
// response status mapped to a dispatch outcome.
package http

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/fieldlabs/teleship/internal/domain"
	"github.com/fieldlabs/teleship/internal/ports"
)

// Transmitter implements ports.Transmitter using HTTP.
type Transmitter struct {
	client   ports.HTTPClient
	endpoint string
	logger   ports.Logger
}

// NewTransmitter creates a new HTTP transmitter posting to the given
// endpoint URL.
func NewTransmitter(client ports.HTTPClient, endpoint string, logger ports.Logger) *Transmitter {
	return &Transmitter{
		client:   client,
		endpoint: endpoint,
		logger:   logger,
	}
}

// itemError is one entry of the ingestion service's per-item error list in a
// partial-acceptance response.
type itemError struct {
	Index      int    `json:"index"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// ingestResponse is the body of a 206 Partial Content response.
type ingestResponse struct {
	ItemsReceived int         `json:"itemsReceived"`
	ItemsAccepted int         `json:"itemsAccepted"`
	Errors        []itemError `json:"errors"`
}

// Transmit posts the batch and classifies the response. A returned error
// means the request never produced a usable response (connection failure,
// timeout); the caller retries the unmodified batch in that case.
func (t *Transmitter) Transmit(ctx context.Context, batch []domain.Envelope) (domain.Outcome, error) {
	if len(batch) == 0 {
		return domain.Accepted(), nil
	}

	var body bytes.Buffer
	zw := gzip.NewWriter(&body)
	enc := json.NewEncoder(zw)
	for i := range batch {
		if err := enc.Encode(batch[i]); err != nil {
			return domain.Outcome{}, fmt.Errorf("marshal envelope: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return domain.Outcome{}, fmt.Errorf("finalize body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, &body)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-json-stream")
	req.Header.Set("Content-Encoding", "gzip")

	resp, err := t.client.Do(req)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return domain.Accepted(), nil

	case resp.StatusCode == http.StatusPartialContent:
		return t.partialOutcome(resp.Body, batch), nil

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == 439:
		// 439 is the service's "daily quota exceeded" variant of 429.
		return domain.ThrottledWith(retryAfter(resp), batch), nil

	case resp.StatusCode == http.StatusRequestTimeout ||
		resp.StatusCode == http.StatusInternalServerError ||
		resp.StatusCode == http.StatusBadGateway ||
		resp.StatusCode == http.StatusServiceUnavailable:
		return domain.RetryWith(batch), nil

	default:
		respBody, _ := io.ReadAll(resp.Body)
		t.logger.Warn("ingestion rejected batch",
			ports.Int("status", resp.StatusCode),
			ports.String("body", string(respBody)))
		return domain.Rejected(), nil
	}
}

// partialOutcome reads a 206 body and keeps only the items the service
// reported as retryable. Items rejected with a permanent status are dropped.
func (t *Transmitter) partialOutcome(body io.Reader, batch []domain.Envelope) domain.Outcome {
	var ir ingestResponse
	if err := json.NewDecoder(body).Decode(&ir); err != nil {
		t.logger.Warn("unreadable partial-content response, retrying whole batch", ports.Err(err))
		return domain.RetryWith(batch)
	}

	if ir.ItemsAccepted >= len(batch) {
		return domain.Accepted()
	}

	remaining := make([]domain.Envelope, 0, len(ir.Errors))
	for _, e := range ir.Errors {
		if e.Index < 0 || e.Index >= len(batch) {
			continue
		}
		if retryableStatus(e.StatusCode) {
			remaining = append(remaining, batch[e.Index])
		} else {
			t.logger.Warn("item rejected",
				ports.Int("index", e.Index),
				ports.Int("status", e.StatusCode),
				ports.String("message", e.Message))
		}
	}

	if len(remaining) == 0 {
		return domain.Rejected()
	}
	return domain.RetryWith(remaining)
}

// retryableStatus reports whether a per-item status is worth retrying.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		439,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable:
		return true
	default:
		return false
	}
}

// retryAfter parses the Retry-After header as delay seconds or an HTTP date.
// Returns zero when the header is missing or unparseable.
func retryAfter(resp *http.Response) time.Duration {
	value := resp.Header.Get("Retry-After")
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
