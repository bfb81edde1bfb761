package viewmodel

import "strings"

// Filter returns the items with at least one field containing query,
// compared case-insensitively. Order is preserved. An empty query returns
// items itself.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	if query == "" || fields == nil {
		return items
	}

	q := strings.ToLower(query)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if Matches(fields(item), q) {
			out = append(out, item)
		}
	}
	return out
}

// Matches reports whether any field contains the lower-cased query.
func Matches(fields []string, lowerQuery string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), lowerQuery) {
			return true
		}
	}
	return false
}

// Sum adds field over items. Missing values count as zero.
func Sum[T any](items []T, field func(T) *float64) float64 {
	var total float64
	for _, item := range items {
		if v := field(item); v != nil {
			total += *v
		}
	}
	return total
}
