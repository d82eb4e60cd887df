// Package dryrun previews API requests without sending them.
package dryrun

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/paddle-billing/paddle-cli/internal/debug"
)

type contextKey string

const dryRunKey contextKey = "dry_run_enabled"

// ErrSkipped is returned by Transport in place of a response.
var ErrSkipped = errors.New("dry run: request not sent")

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, dryRunKey, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(dryRunKey).(bool); ok {
		return v
	}
	return false
}

// Preview describes a request that would have been sent.
type Preview struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    json.RawMessage   `json:"body,omitempty"`
}

// FromRequest builds a preview of req with the credential redacted. The
// request body is read through GetBody so req stays sendable.
func FromRequest(req *http.Request) (*Preview, error) {
	p := &Preview{
		Method:  req.Method,
		URL:     req.URL.String(),
		Headers: map[string]string{},
	}
	for k, v := range debug.RedactHeaders(req.Header) {
		if len(v) > 0 {
			p.Headers[k] = v[0]
		}
	}
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		defer func() { _ = body.Close() }()
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		if len(data) > 0 {
			p.Body = data
		}
	}
	return p, nil
}

// Write outputs the preview in a human-readable form.
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "[DRY-RUN] %s %s\n", p.Method, p.URL)

	keys := make([]string, 0, len(p.Headers))
	for k := range p.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", k, p.Headers[k])
	}

	if len(p.Body) > 0 {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, p.Body, "  ", "  "); err == nil {
			_, _ = fmt.Fprintf(w, "\n  %s\n", pretty.String())
		} else {
			_, _ = fmt.Fprintf(w, "\n  %s\n", p.Body)
		}
	}
	_, _ = fmt.Fprintln(w, "No request sent (dry-run mode)")
}

// Transport stands in for the HTTP client in dry-run mode: it writes a
// preview of each request and returns ErrSkipped.
type Transport struct {
	Out  io.Writer
	JSON bool
}

// Do implements the client transport interface.
func (t Transport) Do(req *http.Request) (*http.Response, error) {
	p, err := FromRequest(req)
	if err != nil {
		return nil, err
	}
	out := t.Out
	if out == nil {
		out = io.Discard
	}
	if t.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return nil, err
		}
	} else {
		p.Write(out)
	}
	return nil, ErrSkipped
}
