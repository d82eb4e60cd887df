package filter

import (
	"testing"
)

func TestApply_EmptyExpression(t *testing.T) {
	data := map[string]any{"id": "pro_1"}
	result, err := Apply(data, "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(map[string]any)["id"] != "pro_1" {
		t.Error("empty expression should return data unchanged")
	}
}

func TestApply_SelectField(t *testing.T) {
	data := map[string]any{"data": map[string]any{"id": "pro_1", "name": "Pro"}}
	result, err := Apply(data, ".data.name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Pro" {
		t.Errorf("expected 'Pro', got %v", result)
	}
}

func TestApply_MultipleResults(t *testing.T) {
	data := map[string]any{"data": []any{
		map[string]any{"id": "pro_1", "status": "active"},
		map[string]any{"id": "pro_2", "status": "archived"},
		map[string]any{"id": "pro_3", "status": "active"},
	}}
	result, err := Apply(data, `.data[] | select(.status == "active") | .id`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids, ok := result.([]any)
	if !ok || len(ids) != 2 || ids[0] != "pro_1" || ids[1] != "pro_3" {
		t.Errorf("unexpected result %v", result)
	}
}

func TestApply_ShellEscapedOperator(t *testing.T) {
	data := map[string]any{"data": []any{
		map[string]any{"status": "active"},
		map[string]any{"status": "archived"},
	}}
	result, err := Apply(data, `[.data[] | select(.status \!= "active")] | length`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 1 {
		t.Errorf("expected 1, got %v (%T)", result, result)
	}
}

func TestApply_InvalidExpression(t *testing.T) {
	if _, err := Apply(map[string]any{}, "invalid[[["); err == nil {
		t.Error("expected error for invalid expression")
	}
}

func TestApply_RuntimeError(t *testing.T) {
	_, err := Apply(map[string]any{"data": "x"}, ".data | keys")
	if err == nil {
		t.Fatal("expected runtime error")
	}
}

func TestCompile(t *testing.T) {
	if _, err := Compile(".data[].id"); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if _, err := Compile(".data | undefined_fn"); err == nil {
		t.Fatal("expected compile error for unknown function")
	}
}

func TestApplyFromJSON(t *testing.T) {
	result, err := ApplyFromJSON([]byte(`{"data":{"unit_price":{"amount":"1000"}}}`), ".data.unit_price.amount")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "1000" {
		t.Errorf("expected '1000', got %v", result)
	}

	if _, err := ApplyFromJSON([]byte(`{`), "."); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
