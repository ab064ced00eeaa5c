// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cache implements the read-through response cache of the catalogue.

Every cached read is identified by a logical function name (for example
"get_countries" or "filter_songs") plus its normalized parameters. Entries
expire after a TTL and can be dropped in bulk by function name when an admin
mutation makes them stale.

Key Layout:

	<prefix>:<function>:<name>=<value>&<name>=<value>   parameterized reads
	<prefix>:<function>:<id>                            point lookups

Parameters are sorted by name and empty values are dropped, so requests that
differ only in parameter order collapse onto one key. The trailing separator
after the function name keeps "get_song" from matching "get_songs".

Backends:

  - [RedisStore]: shared across instances (go-redis).
  - [MemoryStore]: in-process, sharded (sturdyc).

A failing backend never fails a request: reads degrade to misses and writes
are skipped, with a warning logged.
*/
package cache

import (
	"context"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/songatlas/pkg/slice"
)

// KeySeparator separates the prefix, function name and parameter segments of a key.
const KeySeparator = ":"

// # Storage Contract

// Store is the key/value backend behind the [Coordinator].
type Store interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys and reports how many existed.
	Delete(ctx context.Context, keys ...string) (int, error)

	// DeletePrefix removes every key starting with prefix and reports how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// FetchFn computes the live value on a cache miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// # Key Derivation

// Params is the normalized parameter set of one cached call.
type Params map[string]string

// Encode renders the params sorted by name with empty values dropped.
// Values are query-escaped so a search term cannot forge another parameter.
func (p Params) Encode() string {
	values := url.Values{}
	for name, value := range p {
		if value == "" {
			continue
		}
		values.Set(name, value)
	}

	// url.Values.Encode sorts by key.
	return values.Encode()
}

// IntList renders a list-valued parameter canonically: ascending, without
// duplicates, comma separated. An empty list renders as "".
func IntList(ids []int) string {
	if len(ids) == 0 {
		return ""
	}

	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	return strings.Join(slice.Map(sorted, strconv.Itoa), ",")
}

// Keys derives cache keys under one namespace prefix.
type Keys struct {
	prefix string
}

// NewKeys returns a key builder for the given namespace prefix.
func NewKeys(prefix string) Keys {
	return Keys{prefix: strings.TrimSuffix(prefix, KeySeparator)}
}

// Function returns the prefix shared by every variant of a logical function.
func (k Keys) Function(function string) string {
	return k.prefix + KeySeparator + function + KeySeparator
}

// For returns the key of one parameterized call.
func (k Keys) For(function string, params Params) string {
	return k.Function(function) + params.Encode()
}

// ForID returns the key of a point lookup.
func (k Keys) ForID(function string, id int) string {
	return k.Function(function) + strconv.Itoa(id)
}
