package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/paddle-billing/paddle-cli/internal/debug"
)

// Request describes one API call. It is built per call and discarded once
// the call completes.
type Request struct {
	Method string
	Path   string
	Query  Query
	Body   any
}

// NewHTTPRequest builds the outbound HTTP request for r without sending it.
func (c *Client) NewHTTPRequest(ctx context.Context, r Request) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	// A nil pointer or slice body is absent, not a JSON null.
	hasBody := !isUndefined(r.Body)
	var bodyReader io.Reader
	if hasBody {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(r.Path, r.Query), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

// Send performs r and decodes the JSON response body into out, whatever the
// HTTP status. API-level errors arrive as ordinary payloads; callers inspect
// the decoded value. Only transport and decode failures are returned as errors.
func (c *Client) Send(ctx context.Context, r Request, out any) error {
	body, status, err := c.roundTrip(ctx, r)
	if err != nil {
		return err
	}
	if out == nil {
		out = new(json.RawMessage)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{StatusCode: status, Err: err}
	}
	return nil
}

// SendRaw performs r and returns the response document verbatim.
func (c *Client) SendRaw(ctx context.Context, r Request) (json.RawMessage, error) {
	body, status, err := c.roundTrip(ctx, r)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		var probe any
		return nil, &DecodeError{StatusCode: status, Err: json.Unmarshal(body, &probe)}
	}
	return json.RawMessage(body), nil
}

// roundTrip issues exactly one attempt and returns the raw body and status.
func (c *Client) roundTrip(ctx context.Context, r Request) ([]byte, int, error) {
	req, err := c.NewHTTPRequest(ctx, r)
	if err != nil {
		return nil, 0, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		}
		return nil, 0, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &DecodeError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete",
			"method", req.Method,
			"url", req.URL.String(),
			"status", resp.StatusCode,
			"request_id", resp.Header.Get("Request-Id"),
			"duration", time.Since(start),
		)
	}
	return body, resp.StatusCode, nil
}
