package resolve_test

import (
	"errors"
	"testing"

	"github.com/paddle-billing/paddle-cli/internal/resolve"
)

func TestMatch_ExactHit(t *testing.T) {
	name, err := resolve.Match("address", []string{"address", "business"})
	if err != nil {
		t.Fatal(err)
	}
	if name != "address" {
		t.Fatalf("expected address, got %q", name)
	}
}

func TestMatch_PartialHit(t *testing.T) {
	name, err := resolve.Match("bus", []string{"address", "business"})
	if err != nil {
		t.Fatal(err)
	}
	if name != "business" {
		t.Fatalf("expected business, got %q", name)
	}
}

func TestMatch_CaseInsensitive(t *testing.T) {
	name, err := resolve.Match("PRICES", []string{"prices"})
	if err != nil {
		t.Fatal(err)
	}
	if name != "prices" {
		t.Fatalf("expected prices, got %q", name)
	}
}

func TestMatch_NoMatch(t *testing.T) {
	if _, err := resolve.Match("zzz", []string{"prices"}); err == nil {
		t.Fatal("expected error for no match")
	}
}

func TestMatch_Ambiguous(t *testing.T) {
	_, err := resolve.Match("sandbox", []string{"sandbox-us", "sandbox-eu"})
	if err == nil {
		t.Fatal("expected ambiguity error")
	}
	var ae *resolve.AmbiguousError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AmbiguousError, got %T: %v", err, err)
	}
	if len(ae.Matches) != 2 {
		t.Fatalf("expected two candidates: %+v", ae)
	}
}

func TestMatch_PrefersExactOverFuzzy(t *testing.T) {
	name, err := resolve.Match("live", []string{"live-eu", "live"})
	if err != nil {
		t.Fatal(err)
	}
	if name != "live" {
		t.Fatalf("expected exact match, got %q", name)
	}
}

func TestMatch_EmptyInput(t *testing.T) {
	if _, err := resolve.Match("", []string{"prices"}); !errors.Is(err, resolve.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
	if _, err := resolve.Match("prices", nil); !errors.Is(err, resolve.ErrEmptyItems) {
		t.Fatalf("expected ErrEmptyItems, got %v", err)
	}
}

func TestMatchAll_Ranked(t *testing.T) {
	matches := resolve.MatchAll("s", []string{"prices", "customer", "address", "discount"}, 10)
	if len(matches) == 0 {
		t.Fatal("expected at least one match")
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Fatalf("matches not sorted by score: %+v", matches)
		}
	}
	if got := resolve.MatchAll("s", []string{"prices"}, 0); got != nil {
		t.Fatalf("expected nil for zero limit, got %+v", got)
	}
}

func TestSuggest(t *testing.T) {
	if got := resolve.Suggest("prics", []string{"prices", "customer"}); got != "prices" {
		t.Fatalf("Suggest() = %q, want prices", got)
	}
	if got := resolve.Suggest("qqq", []string{"prices"}); got != "" {
		t.Fatalf("Suggest() = %q, want empty", got)
	}
}
