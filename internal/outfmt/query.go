package outfmt

import (
	"context"
	"encoding/json"
	"io"

	"github.com/paddle-billing/paddle-cli/internal/filter"
)

type queryKey struct{}

// WithQuery adds a jq query to the context
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// GetQuery retrieves the jq query from context
func GetQuery(ctx context.Context) string {
	q, _ := ctx.Value(queryKey{}).(string)
	return q
}

// ApplyQuery converts v to plain JSON values and applies the query.
func ApplyQuery(v any, query string) (any, error) {
	plain, err := toPlain(normalizeJSONOutput(v))
	if err != nil {
		return nil, err
	}
	if query == "" {
		return plain, nil
	}
	return filter.Apply(plain, query)
}

// WriteJSONFiltered writes v as JSON after applying an optional jq query.
func WriteJSONFiltered(w io.Writer, v any, query string, compact bool) error {
	if query == "" {
		return WriteJSON(w, normalizeJSONOutput(v), compact)
	}
	result, err := ApplyQuery(v, query)
	if err != nil {
		return err
	}
	return WriteJSON(w, result, compact)
}

func toPlain(v any) (any, error) {
	var data []byte
	switch t := v.(type) {
	case json.RawMessage:
		data = t
	case []byte:
		data = t
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			return nil, err
		}
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
