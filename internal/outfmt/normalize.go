package outfmt

import (
	"encoding/json"
	"reflect"
)

// normalizeJSONOutput wraps bare slices in a {"data": [...]} envelope so
// multi-entity output has the same shape as an API list response.
func normalizeJSONOutput(v any) any {
	if v == nil {
		return v
	}
	switch v.(type) {
	case []byte, json.RawMessage:
		return v
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return v
		}
		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return v
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return v
	}
	items := rv.Interface()
	// A nil slice would encode as null and break .data[] queries.
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		items = []any{}
	}
	return map[string]any{"data": items}
}

// entities returns the elements of a {"data": [...]} document, or the
// document itself when data is not a list.
func entities(doc any) []any {
	m, ok := doc.(map[string]any)
	if !ok {
		if list, ok := doc.([]any); ok {
			return list
		}
		return []any{doc}
	}
	if list, ok := m["data"].([]any); ok {
		return list
	}
	if item, ok := m["data"]; ok && item != nil {
		return []any{item}
	}
	return []any{doc}
}
