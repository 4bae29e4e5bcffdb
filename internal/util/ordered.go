package util

import (
	"fmt"
	"sort"
)

// Container is anything that can enumerate its elements. ISet embeds it so
// that every set type shares a single way to walk its contents.
type Container[E any] interface {
	// Elements returns all elements currently in the container. Order is not
	// guaranteed unless the concrete type documents otherwise.
	Elements() []E
}

// Alphabetized returns the elements of c sorted in ascending order by their
// string representation. It is used wherever a set's contents need to be
// compared or printed deterministically, such as in FIRST/FOLLOW results.
func Alphabetized[T any](c Container[T]) []T {
	elements := c.Elements()
	sorted := make([]T, len(elements))
	copy(sorted, elements)

	sort.Slice(sorted, func(i, j int) bool {
		return fmt.Sprintf("%v", sorted[i]) < fmt.Sprintf("%v", sorted[j])
	})

	return sorted
}

// OrderedKeys returns the keys of m in ascending sorted order, so that
// iteration over a map can be made deterministic. This is used throughout the
// automaton and parser packages wherever a map must be walked in a
// reproducible order so that traces and table dumps are stable across runs.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// OrderedIntKeys is the int-keyed analog of OrderedKeys.
func OrderedIntKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
