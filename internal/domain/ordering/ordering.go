// Package ordering sorts records most-recent (or highest) first.
//
// Both helpers are stable: records with equal keys keep their input order.
// They return a fresh slice and never reorder the caller's.
package ordering

import (
	"cmp"
	"slices"
	"time"
)

// Descending returns records ordered by keyOf, greatest first.
func Descending[T any, K cmp.Ordered](records []T, keyOf func(T) K) []T {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(keyOf(b), keyOf(a))
	})
	return out
}

// DescendingTime returns records ordered by timeOf, latest first.
func DescendingTime[T any](records []T, timeOf func(T) time.Time) []T {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b T) int {
		return timeOf(b).Compare(timeOf(a))
	})
	return out
}

// IsDescending reports whether every adjacent pair satisfies key(x) >= key(y).
func IsDescending[T any, K cmp.Ordered](records []T, keyOf func(T) K) bool {
	for i := 1; i < len(records); i++ {
		if cmp.Less(keyOf(records[i-1]), keyOf(records[i])) {
			return false
		}
	}
	return true
}
