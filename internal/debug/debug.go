// Package debug carries the debug switch through context and configures
// structured logging.
package debug

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
)

type contextKey struct{}

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(contextKey{}).(bool); ok {
		return v
	}
	return false
}

// SetupLogger installs a text slog handler on w (stderr when nil) at debug
// level when enabled, warn level otherwise.
func SetupLogger(enabled bool, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelWarn
	if enabled {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// RedactHeaders returns a copy of h with credentials masked.
func RedactHeaders(h http.Header) http.Header {
	out := h.Clone()
	if out == nil {
		return http.Header{}
	}
	if auth := out.Get("Authorization"); auth != "" {
		scheme, _, _ := strings.Cut(auth, " ")
		out.Set("Authorization", scheme+" [REDACTED]")
	}
	return out
}
