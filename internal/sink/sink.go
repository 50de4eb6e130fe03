// Package sink sends structured records to the remote indexing service.
package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/loglift/loglift/internal/config"
	"github.com/loglift/loglift/internal/model"
)

// maxDiagnosticBody caps how much of a failure response body is kept
// for the error message.
const maxDiagnosticBody = 512

// Client posts one record per request to the configured endpoint. Every
// send carries the client timeout; a timed-out request is a failed send.
type Client struct {
	endpoint string
	http     *http.Client
	log      zerolog.Logger
}

// New builds a sink client from config.
func New(cfg *config.SinkConfig, log zerolog.Logger) *Client {
	return &Client{
		endpoint: cfg.URL,
		http:     &http.Client{Timeout: cfg.Timeout()},
		log:      log.With().Str("component", "sink").Logger(),
	}
}

// Index sends rec as a JSON document. Only 201 Created counts as
// success; any other status or transport error is returned as a failure
// with the response body (truncated) for diagnostics. There is no retry:
// delivery is at most once per record.
func (c *Client) Index(ctx context.Context, rec *model.AccessRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxDiagnosticBody))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
