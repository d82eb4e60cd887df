package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/paddle-billing/paddle-cli/internal/api"
	"github.com/paddle-billing/paddle-cli/internal/outfmt"
)

// field is one "Label: value" line of a detail view.
type field struct {
	label string
	value string
}

// printDetail writes a title line followed by aligned fields. Empty values
// are skipped.
func printDetail(cmd *cobra.Command, title string, fields []field) {
	w := newTabWriterFromCmd(cmd)
	_, _ = fmt.Fprintln(w, title)
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		_, _ = fmt.Fprintf(w, "  %s:\t%s\n", f.label, f.value)
	}
	_ = w.Flush()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTimestamp(*t)
}

func formatMoney(m api.Money) string {
	return outfmt.FormatMoney(m.Amount, m.CurrencyCode)
}

// formatDuration renders a billing interval as "every month" or "every 3 months".
func formatDuration(d *api.Duration) string {
	if d == nil || d.Interval == "" {
		return ""
	}
	if d.Frequency <= 1 {
		return "every " + d.Interval
	}
	return fmt.Sprintf("every %d %ss", d.Frequency, d.Interval)
}

func formatCustomData(data api.CustomData) string {
	if len(data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, data[k]))
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
