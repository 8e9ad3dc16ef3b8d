// Package ptr contains helper functions for working with pointers to values.
package ptr

// To returns a pointer to a shallow copy of v.
func To[T any](v T) *T {
	return &v
}

// Deref returns the value p points to, or def when p is nil. It is the
// null-coalescing step used to merge optional configuration with defaults.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
