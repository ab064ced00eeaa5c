// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// Sharding and eviction settings for the in-process store.
const (
	memoryShards             = 10
	memoryEvictionPercentage = 10
	memoryEvictionInterval   = time.Minute
)

// MemoryStore is a [Store] held in process memory by a sturdyc client.
//
// sturdyc applies one TTL to the whole client, so the ttl argument of Set is
// ignored in favour of the one given to [NewMemoryStore]. Entries are not
// shared between instances, which suits single-instance deployments and tests.
type MemoryStore struct {
	client *sturdyc.Client[[]byte]
}

// NewMemoryStore creates a store holding up to capacity entries for ttl.
func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	if capacity < memoryShards {
		capacity = memoryShards
	}

	client := sturdyc.New[[]byte](
		capacity,
		memoryShards,
		ttl,
		memoryEvictionPercentage,
		sturdyc.WithEvictionInterval(memoryEvictionInterval),
	)

	return &MemoryStore{client: client}
}

// Get implements [Store].
func (store *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, found := store.client.Get(key)
	return value, found, nil
}

// Set implements [Store].
func (store *MemoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	store.client.Set(key, value)
	return nil
}

// Delete implements [Store].
func (store *MemoryStore) Delete(_ context.Context, keys ...string) (int, error) {
	removed := 0
	for _, key := range keys {
		if _, found := store.client.Get(key); found {
			removed++
		}
		store.client.Delete(key)
	}
	return removed, nil
}

// DeletePrefix implements [Store] by scanning every key in the client.
func (store *MemoryStore) DeletePrefix(_ context.Context, prefix string) (int, error) {
	removed := 0
	for _, key := range store.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			store.client.Delete(key)
			removed++
		}
	}
	return removed, nil
}

// Ping implements [Store].
func (store *MemoryStore) Ping(context.Context) error {
	return nil
}
