package outfmt

import (
	"bytes"
	"context"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input       string
		expected    Mode
		expectError bool
	}{
		{"text", Text, false},
		{"", Text, false},
		{"table", Text, false},
		{"json", JSON, false},
		{"JSON", JSON, false},
		{"jsonl", JSONL, false},
		{"ndjson", JSONL, false},
		{"yaml", Text, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := Parse(tt.input)
			if tt.expectError && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if !tt.expectError && mode != tt.expected {
				t.Errorf("Expected mode %v, got %v", tt.expected, mode)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	for mode, want := range map[Mode]string{Text: "text", JSON: "json", JSONL: "jsonl"} {
		if got := mode.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", mode, got, want)
		}
	}
}

func TestModeContext(t *testing.T) {
	ctx := context.Background()
	if ModeFromContext(ctx) != Text || IsJSON(ctx) {
		t.Error("default mode should be Text")
	}
	if !IsJSON(WithMode(ctx, JSON)) || !IsJSON(WithMode(ctx, JSONL)) {
		t.Error("JSON and JSONL should report IsJSON")
	}
	if IsCompact(ctx) || !IsCompact(WithCompact(ctx, true)) {
		t.Error("compact flag not carried in context")
	}
	if GetQuery(ctx) != "" || GetQuery(WithQuery(ctx, ".data")) != ".data" {
		t.Error("query not carried in context")
	}
}

func TestWriteJSON(t *testing.T) {
	var pretty, compact bytes.Buffer
	v := map[string]string{"url": "https://example.com/?a=1&b=2"}

	if err := WriteJSON(&pretty, v, false); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(&compact, v, true); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(pretty.Bytes(), []byte("\n  \"url\"")) {
		t.Errorf("expected indented output, got %q", pretty.String())
	}
	if compact.String() != `{"url":"https://example.com/?a=1&b=2"}`+"\n" {
		t.Errorf("unexpected compact output %q", compact.String())
	}
}

func TestNormalizeJSONOutput(t *testing.T) {
	var nilSlice []string
	got := normalizeJSONOutput(nilSlice).(map[string]any)
	if items, ok := got["data"].([]any); !ok || len(items) != 0 {
		t.Errorf("nil slice should become empty data array, got %#v", got)
	}

	got = normalizeJSONOutput([]int{1, 2}).(map[string]any)
	if items, ok := got["data"].([]int); !ok || len(items) != 2 {
		t.Errorf("slice should be wrapped, got %#v", got)
	}

	m := map[string]any{"data": 1}
	if normalizeJSONOutput(m).(map[string]any)["data"] != 1 {
		t.Error("maps should pass through")
	}
	if _, ok := normalizeJSONOutput([]byte("{}")).([]byte); !ok {
		t.Error("byte slices should pass through")
	}
}
