// Package cli holds parsing helpers shared by command flags.
package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Matches "7d ago", "2w ago", "3mo ago", "1y ago", "12h ago".
var relativeAgoRegex = regexp.MustCompile(`^(\d+)\s*(h|d|w|mo|y)\s+ago$`)

// Matches "30d", "+30d", "1y" (from now).
var relativeFutureRegex = regexp.MustCompile(`^\+?(\d+)\s*(h|d|w|mo|y)$`)

// ParseTime parses an absolute or relative time expression.
// Supports RFC 3339, YYYY-MM-DD, "today", "tomorrow", "yesterday",
// "<n><unit> ago" and "<n><unit>" or "+<n><unit>" from now, where unit is
// one of h, d, w, mo, y. Dates and day keywords resolve to midnight in
// now's location.
func ParseTime(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, now.Location()); err == nil {
		return t, nil
	}

	input := strings.ToLower(raw)
	switch input {
	case "today":
		return startOfDay(now), nil
	case "tomorrow":
		return startOfDay(now).AddDate(0, 0, 1), nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	}

	if m := relativeAgoRegex.FindStringSubmatch(input); m != nil {
		return applyRelative(now, m[1], m[2], -1, raw)
	}
	if m := relativeFutureRegex.FindStringSubmatch(input); m != nil {
		return applyRelative(now, m[1], m[2], 1, raw)
	}

	return time.Time{}, fmt.Errorf("invalid time expression %q", raw)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func applyRelative(now time.Time, digits, unit string, direction int, raw string) (time.Time, error) {
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return time.Time{}, fmt.Errorf("invalid relative time %q", raw)
	}
	n *= direction

	switch unit {
	case "h":
		return now.Add(time.Duration(n) * time.Hour), nil
	case "d":
		return now.AddDate(0, 0, n), nil
	case "w":
		return now.AddDate(0, 0, 7*n), nil
	case "mo":
		return now.AddDate(0, n, 0), nil
	case "y":
		return now.AddDate(n, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("invalid relative time unit %q", unit)
}
