// Package ptr provides pointer helper functions.
// Similar to k8s.io/utils/ptr for working with optional fields.
package ptr

// To returns a pointer to the given value.
func To[T any](v T) *T {
	return &v
}

// Deref dereferences ptr and returns the value it points to if not nil,
// or else returns def.
func Deref[T any](ptr *T, def T) T {
	if ptr != nil {
		return *ptr
	}
	return def
}

// Clone returns a pointer to a copy of *ptr, or nil.
// The copy is shallow: reference fields inside T are shared.
func Clone[T any](ptr *T) *T {
	if ptr == nil {
		return nil
	}
	v := *ptr
	return &v
}

// NonEmpty returns a pointer to s, or nil when s is empty.
func NonEmpty[T ~string](s T) *T {
	if s == "" {
		return nil
	}
	return &s
}

// ToString converts a pointer to a string-based type to its string value.
// Returns empty string if the pointer is nil.
func ToString[T ~string](ptr *T) string {
	if ptr == nil {
		return ""
	}
	return string(*ptr)
}
