package outfmt

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Formatter handles output formatting for commands.
type Formatter struct {
	ctx       context.Context
	out       io.Writer
	errOut    io.Writer
	tabWriter *tabwriter.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(ctx context.Context, out, errOut io.Writer) *Formatter {
	return &Formatter{
		ctx:       ctx,
		out:       out,
		errOut:    errOut,
		tabWriter: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
	}
}

// Output writes data as JSON or JSONL based on the context mode. In text
// mode it writes nothing and returns false so the caller renders a table.
func (f *Formatter) Output(data any) (bool, error) {
	query := GetQuery(f.ctx)
	switch ModeFromContext(f.ctx) {
	case JSON:
		return true, WriteJSONFiltered(f.out, data, query, IsCompact(f.ctx))
	case JSONL:
		doc, err := ApplyQuery(data, query)
		if err != nil {
			return true, err
		}
		lines := entities(doc)
		if query != "" {
			if list, ok := doc.([]any); ok {
				lines = list
			} else {
				lines = []any{doc}
			}
		}
		for _, line := range lines {
			if err := WriteJSON(f.out, line, true); err != nil {
				return true, err
			}
		}
		return true, nil
	default:
		return false, nil
	}
}

// StartTable writes table headers.
func (f *Formatter) StartTable(headers ...string) {
	f.Row(headers...)
}

// Row writes a single row to the table.
func (f *Formatter) Row(columns ...string) {
	_, _ = fmt.Fprintln(f.tabWriter, strings.Join(columns, "\t"))
}

// EndTable flushes the table output.
func (f *Formatter) EndTable() error {
	return f.tabWriter.Flush()
}

// Empty writes a message to stderr indicating no results.
func (f *Formatter) Empty(message string) {
	_, _ = fmt.Fprintln(f.errOut, message)
}
