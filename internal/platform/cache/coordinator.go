// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/songatlas/internal/platform/apperr"
	"github.com/taibuivan/songatlas/internal/platform/ctxutil"
)

// Coordinator serves cached responses and invalidates them by function name.
//
// # Concurrency
//
// Safe for concurrent use. Concurrent misses on one key are collapsed into a
// single computation; the result is shared by every waiting caller. The
// computation outlives a caller that gives up waiting.
type Coordinator struct {
	store Store
	keys  Keys
	ttl   time.Duration
	group singleflight.Group
}

// NewCoordinator builds a coordinator over store. A nil store disables
// caching: every read computes live and invalidation is a no-op.
func NewCoordinator(store Store, prefix string, ttl time.Duration) *Coordinator {
	return &Coordinator{
		store: store,
		keys:  NewKeys(prefix),
		ttl:   ttl,
	}
}

// Keys exposes the key builder used by the coordinator.
func (coordinator *Coordinator) Keys() Keys {
	return coordinator.keys
}

// Enabled reports whether a backend is configured.
func (coordinator *Coordinator) Enabled() bool {
	return coordinator.store != nil
}

// Ping reports backend health. A disabled cache is always healthy.
func (coordinator *Coordinator) Ping(ctx context.Context) error {
	if coordinator.store == nil {
		return nil
	}
	return coordinator.store.Ping(ctx)
}

// # Read-Through

// Cached returns the cached result of function for params, or computes it
// with fetch and stores it for the configured TTL.
//
// Errors returned by fetch are never cached. Backend failures are logged and
// treated as misses.
func Cached[T any](ctx context.Context, coordinator *Coordinator, function string, params Params, fetch FetchFn[T]) (T, error) {
	return readThrough(ctx, coordinator, coordinator.keys.For(function, params), fetch)
}

// CachedByID is [Cached] for point lookups keyed on a single identifier.
func CachedByID[T any](ctx context.Context, coordinator *Coordinator, function string, id int, fetch FetchFn[T]) (T, error) {
	return readThrough(ctx, coordinator, coordinator.keys.ForID(function, id), fetch)
}

func readThrough[T any](ctx context.Context, coordinator *Coordinator, key string, fetch FetchFn[T]) (T, error) {
	var zero T

	// 1. Lookup completes (or is found unusable) before any computation starts
	if value, hit := lookup[T](ctx, coordinator, key); hit {
		return value, nil
	}

	// 2. Compute once per key across concurrent callers. The shared fetch runs
	// detached from any one caller, so a departing client cannot fail the
	// others; fetch bounds itself with its own query timeout.
	shared := context.WithoutCancel(ctx)
	results := coordinator.group.DoChan(key, func() (any, error) {
		value, err := fetch(shared)
		if err != nil {
			return nil, err
		}

		coordinator.save(shared, key, value)
		return value, nil
	})

	// 3. Each caller stops waiting on its own cancellation
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, apperr.Timeout(ctx.Err())
		}
		return zero, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return zero, result.Err
		}
		return result.Val.(T), nil
	}
}

// lookup decodes a stored entry. Backend and decode failures count as misses.
func lookup[T any](ctx context.Context, coordinator *Coordinator, key string) (T, bool) {
	var value T

	if coordinator.store == nil {
		return value, false
	}

	raw, found, err := coordinator.store.Get(ctx, key)
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "cache_read_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return value, false
	}
	if !found {
		return value, false
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "cache_entry_undecodable",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return value, false
	}

	return value, true
}

// save stores a computed value. Failures only produce a warning.
func (coordinator *Coordinator) save(ctx context.Context, key string, value any) {
	if coordinator.store == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "cache_encode_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return
	}

	if err := coordinator.store.Set(ctx, key, payload, coordinator.ttl); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "cache_write_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}

// # Invalidation

// Invalidate drops cached entries by logical function name.
//
// Without an id every variant of each function is removed, whatever its
// parameters. With an id only the point-lookup entry for that id is removed.
// All functions are attempted; the failures are joined into the returned error.
func (coordinator *Coordinator) Invalidate(ctx context.Context, functions []string, id *int) error {
	if coordinator.store == nil || len(functions) == 0 {
		return nil
	}

	logger := ctxutil.GetLogger(ctx)

	var errs []error
	for _, function := range functions {
		var (
			removed int
			err     error
		)

		if id != nil {
			removed, err = coordinator.store.Delete(ctx, coordinator.keys.ForID(function, *id))
		} else {
			removed, err = coordinator.store.DeletePrefix(ctx, coordinator.keys.Function(function))
		}

		if err != nil {
			errs = append(errs, fmt.Errorf("invalidate %s: %w", function, err))
			continue
		}

		logger.DebugContext(ctx, "cache_invalidated",
			slog.String("function", function),
			slog.Int("removed", removed),
		)
	}

	return errors.Join(errs...)
}
