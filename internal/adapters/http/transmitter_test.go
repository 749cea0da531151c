package http

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fieldlabs/teleship/internal/domain"
	"github.com/fieldlabs/teleship/internal/ports"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, fields ...ports.Field) {}
func (nopLogger) Info(msg string, fields ...ports.Field)  {}
func (nopLogger) Warn(msg string, fields ...ports.Field)  {}
func (nopLogger) Error(msg string, fields ...ports.Field) {}

func testBatch(n int) []domain.Envelope {
	batch := make([]domain.Envelope, n)
	for i := range batch {
		batch[i] = domain.NewTraceEnvelope("line", time.Unix(int64(i), 0))
	}
	return batch
}

func TestTransmit_Success(t *testing.T) {
	var gotLines []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/x-json-stream" {
			t.Errorf("Content-Type = %v, want application/x-json-stream", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Content-Encoding") != "gzip" {
			t.Errorf("Content-Encoding = %v, want gzip", r.Header.Get("Content-Encoding"))
		}

		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			t.Fatalf("gzip reader: %v", err)
		}
		dec := json.NewDecoder(zr)
		for dec.More() {
			var env map[string]interface{}
			if err := dec.Decode(&env); err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			name, _ := env["name"].(string)
			gotLines = append(gotLines, name)
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	tx := NewTransmitter(http.DefaultClient, ts.URL, nopLogger{})

	outcome, err := tx.Transmit(context.Background(), testBatch(3))
	if err != nil {
		t.Fatalf("Transmit() error = %v", err)
	}
	if outcome.Kind != domain.OutcomeAccepted {
		t.Errorf("outcome = %v, want Accepted", outcome.Kind)
	}
	if len(gotLines) != 3 {
		t.Errorf("server received %d envelopes, want 3", len(gotLines))
	}
	for _, name := range gotLines {
		if name != "Message" {
			t.Errorf("envelope name = %q, want Message", name)
		}
	}
}

func TestTransmit_EmptyBatchSkipsRequest(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty batch")
	}))
	defer ts.Close()

	tx := NewTransmitter(http.DefaultClient, ts.URL, nopLogger{})

	outcome, err := tx.Transmit(context.Background(), nil)
	if err != nil {
		t.Fatalf("Transmit() error = %v", err)
	}
	if outcome.Kind != domain.OutcomeAccepted {
		t.Errorf("outcome = %v, want Accepted", outcome.Kind)
	}
}

func TestTransmit_PartialContentRetriesRetryableItems(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPartialContent)
		_ = json.NewEncoder(w).Encode(ingestResponse{
			ItemsReceived: 3,
			ItemsAccepted: 1,
			Errors: []itemError{
				{Index: 1, StatusCode: http.StatusServiceUnavailable, Message: "server busy"},
				{Index: 2, StatusCode: http.StatusBadRequest, Message: "malformed"},
			},
		})
	}))
	defer ts.Close()

	tx := NewTransmitter(http.DefaultClient, ts.URL, nopLogger{})

	batch := testBatch(3)
	outcome, err := tx.Transmit(context.Background(), batch)
	if err != nil {
		t.Fatalf("Transmit() error = %v", err)
	}
	if outcome.Kind != domain.OutcomeRetry {
		t.Fatalf("outcome = %v, want Retry", outcome.Kind)
	}
	if len(outcome.Remaining) != 1 {
		t.Fatalf("remaining = %d items, want 1", len(outcome.Remaining))
	}
	if !outcome.Remaining[0].Time.Equal(batch[1].Time) {
		t.Error("remaining item is not the retryable one")
	}
}

func TestTransmit_PartialContentAllPermanentRejects(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPartialContent)
		_ = json.NewEncoder(w).Encode(ingestResponse{
			ItemsReceived: 2,
			ItemsAccepted: 1,
			Errors: []itemError{
				{Index: 0, StatusCode: http.StatusBadRequest, Message: "malformed"},
			},
		})
	}))
	defer ts.Close()

	tx := NewTransmitter(http.DefaultClient, ts.URL, nopLogger{})

	outcome, err := tx.Transmit(context.Background(), testBatch(2))
	if err != nil {
		t.Fatalf("Transmit() error = %v", err)
	}
	if outcome.Kind != domain.OutcomeRejected {
		t.Errorf("outcome = %v, want Rejected", outcome.Kind)
	}
}

func TestTransmit_ThrottledCarriesRetryAfter(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	tx := NewTransmitter(http.DefaultClient, ts.URL, nopLogger{})

	batch := testBatch(2)
	outcome, err := tx.Transmit(context.Background(), batch)
	if err != nil {
		t.Fatalf("Transmit() error = %v", err)
	}
	if outcome.Kind != domain.OutcomeThrottled {
		t.Fatalf("outcome = %v, want Throttled", outcome.Kind)
	}
	if outcome.RetryAfter != 7*time.Second {
		t.Errorf("retry after = %v, want 7s", outcome.RetryAfter)
	}
	if len(outcome.Remaining) != 2 {
		t.Errorf("remaining = %d items, want the whole batch", len(outcome.Remaining))
	}
}

func TestTransmit_ServerErrorRetriesWholeBatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	tx := NewTransmitter(http.DefaultClient, ts.URL, nopLogger{})

	outcome, err := tx.Transmit(context.Background(), testBatch(2))
	if err != nil {
		t.Fatalf("Transmit() error = %v", err)
	}
	if outcome.Kind != domain.OutcomeRetry {
		t.Fatalf("outcome = %v, want Retry", outcome.Kind)
	}
	if len(outcome.Remaining) != 2 {
		t.Errorf("remaining = %d items, want the whole batch", len(outcome.Remaining))
	}
}

func TestTransmit_BadRequestRejects(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	tx := NewTransmitter(http.DefaultClient, ts.URL, nopLogger{})

	outcome, err := tx.Transmit(context.Background(), testBatch(1))
	if err != nil {
		t.Fatalf("Transmit() error = %v", err)
	}
	if outcome.Kind != domain.OutcomeRejected {
		t.Errorf("outcome = %v, want Rejected", outcome.Kind)
	}
}

func TestTransmit_ConnectionFailureReturnsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // nothing listening anymore

	tx := NewTransmitter(http.DefaultClient, ts.URL, nopLogger{})

	_, err := tx.Transmit(context.Background(), testBatch(1))
	if err == nil {
		t.Fatal("Transmit() expected a transport error")
	}
	if !strings.Contains(err.Error(), "send request") {
		t.Errorf("error = %v, want send request wrapping", err)
	}
}

func TestRetryAfter_HTTPDate(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", time.Now().Add(time.Minute).UTC().Format(http.TimeFormat))

	d := retryAfter(resp)
	if d <= 0 || d > time.Minute {
		t.Errorf("retryAfter = %v, want a positive delay up to 1m", d)
	}
}

func TestRetryAfter_MissingHeader(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}

	if d := retryAfter(resp); d != 0 {
		t.Errorf("retryAfter = %v, want 0", d)
	}
}
