// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer builds pointers to literals for optional PATCH fields.

A nil field means "leave unchanged", so callers constructing partial
updates need a pointer to a value they have inline.
*/
package pointer

// To returns a pointer to the provided value (e.g. pointer.To("Maya")).
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, returning the zero value if it is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
