// Package patch holds helpers for optional request fields, where a nil
// pointer means the client omitted the field.
package patch

// Coalesce dereferences ptr, falling back when the field was omitted.
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}
