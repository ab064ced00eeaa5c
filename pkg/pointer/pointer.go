// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer builds pointers to values for optional JSON and SQL fields,
// such as the nullable fund of a song or the optional id of a mutation event.
package pointer

// To returns a pointer to a copy of v.
//
//	event := catalog.MutationEvent{ID: pointer.To(42)}
func To[T any](v T) *T {
	return &v
}
