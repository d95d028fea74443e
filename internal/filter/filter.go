// Package filter computes the visible subset of an already-fetched
// collection. Filtering is pure and synchronous; it never refetches.
package filter

import "strings"

// Predicate reports whether an item stays visible.
type Predicate[T any] func(T) bool

// Apply keeps the items satisfying every predicate (AND semantics). With no
// predicates the input is returned unchanged.
func Apply[T any](items []T, preds ...Predicate[T]) []T {
	if len(preds) == 0 {
		return items
	}
	out := make([]T, 0, len(items))
next:
	for _, it := range items {
		for _, p := range preds {
			if p == nil {
				continue
			}
			if !p(it) {
				continue next
			}
		}
		out = append(out, it)
	}
	return out
}

// Text matches query as a case-insensitive substring of any of the fields.
// An empty query matches everything.
func Text[T any](query string, fields func(T) []string) Predicate[T] {
	query = strings.ToLower(strings.TrimSpace(query))
	return func(it T) bool {
		if query == "" {
			return true
		}
		for _, f := range fields(it) {
			if strings.Contains(strings.ToLower(f), query) {
				return true
			}
		}
		return false
	}
}

// Category matches the field exactly (case-insensitive). An empty or "all"
// selection matches everything.
func Category[T any](selected string, field func(T) string) Predicate[T] {
	selected = strings.ToLower(strings.TrimSpace(selected))
	return func(it T) bool {
		if selected == "" || selected == "all" {
			return true
		}
		return strings.ToLower(strings.TrimSpace(field(it))) == selected
	}
}
