// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting page envelope is delivered in the API response.
package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const (
	// DefaultSize is the number of items per page if not specified.
	DefaultSize = 50
	// MaxSize is the upper bound for items per page to prevent system abuse.
	MaxSize = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// MaxPage keeps (MaxPage-1)*MaxSize within a 32-bit OFFSET.
	MaxPage = math.MaxInt32 / MaxSize
)

// Params holds the parsed page and size from a request's query string.
type Params struct {
	Page int
	Size int
}

// Offset returns the SQL OFFSET value derived from [Page] and [Size].
// Callers bound Page by [MaxPage] first.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Size
}

// Normalize clamps the params the same way [FromRequest] does.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Size < 1 {
		p.Size = DefaultSize
	}
	if p.Size > MaxSize {
		p.Size = MaxSize
	}
	return p
}

// Page is the envelope returned by paginated list endpoints.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total_count"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	Pages      int `json:"pages"`
}

// NewPage builds the envelope for one page of items.
//
// It automatically calculates Pages based on the total count and size.
func NewPage[T any](items []T, params Params, total int) Page[T] {
	pages := 0
	if params.Size > 0 {
		pages = (total + params.Size - 1) / params.Size
	}

	if items == nil {
		items = []T{}
	}

	return Page[T]{
		Items:      items,
		TotalCount: total,
		Page:       params.Page,
		Size:       params.Size,
		Pages:      pages,
	}
}

// FromRequest parses "page" and "size" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid or negative values fall back to [DefaultPage] and [DefaultSize];
// sizes above [MaxSize] are clamped to it.
func FromRequest(r *http.Request) Params {
	return Params{
		Page: parseIntParam(r, "page", DefaultPage),
		Size: parseIntParam(r, "size", DefaultSize),
	}.Normalize()
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
