// Package resolve matches user input against known names, such as relation
// names, profile names and command names.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Candidate is one match result with its score.
type Candidate struct {
	Name  string
	Score int
}

var (
	ErrEmptyQuery = errors.New("empty search query")
	ErrEmptyItems = errors.New("no names to match against")
)

// AmbiguousError indicates multiple names matched equally well.
type AmbiguousError struct {
	Query   string
	Matches []Candidate
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "ambiguous match for %q", e.Query)
	if len(e.Matches) > 0 {
		b.WriteString(", candidates:")
		for _, m := range e.Matches {
			_, _ = fmt.Fprintf(&b, "\n  %s", m.Name)
		}
	}
	return b.String()
}

type lowerSource []string

func (s lowerSource) String(i int) string { return strings.ToLower(s[i]) }
func (s lowerSource) Len() int            { return len(s) }

// Match finds the single name best matching query.
//
// An exact case-insensitive match wins. Otherwise the top fuzzy result is
// returned, or *AmbiguousError when the top two tie.
func Match(query string, names []string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	if len(names) == 0 {
		return "", ErrEmptyItems
	}

	for _, name := range names {
		if strings.EqualFold(name, query) {
			return name, nil
		}
	}

	results := fuzzy.FindFrom(strings.ToLower(query), lowerSource(names))
	if len(results) == 0 {
		return "", fmt.Errorf("no match found for %q", query)
	}
	if len(results) > 1 && results[0].Score == results[1].Score {
		return "", &AmbiguousError{
			Query:   query,
			Matches: buildCandidates(names, results, 5),
		}
	}
	return names[results[0].Index], nil
}

// MatchAll returns up to limit names ranked by score (best first).
func MatchAll(query string, names []string, limit int) []Candidate {
	query = strings.TrimSpace(query)
	if query == "" || len(names) == 0 || limit <= 0 {
		return nil
	}
	results := fuzzy.FindFrom(strings.ToLower(query), lowerSource(names))
	return buildCandidates(names, results, limit)
}

// Suggest returns the single best fuzzy suggestion for query, or "".
func Suggest(query string, names []string) string {
	if m := MatchAll(query, names, 1); len(m) == 1 {
		return m[0].Name
	}
	return ""
}

func buildCandidates(names []string, results fuzzy.Matches, limit int) []Candidate {
	if len(results) == 0 || limit <= 0 {
		return nil
	}
	if len(results) > limit {
		results = results[:limit]
	}
	out := make([]Candidate, len(results))
	for i, r := range results {
		out[i] = Candidate{Name: names[r.Index], Score: r.Score}
	}
	return out
}
