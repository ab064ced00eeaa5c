// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/songatlas/internal/core/catalog"
	"github.com/taibuivan/songatlas/internal/platform/cache"
	"github.com/taibuivan/songatlas/pkg/pointer"
)

/*
TestAffectedFunctions pins the declared invalidation table.
*/
func TestAffectedFunctions(t *testing.T) {
	facets := []string{
		catalog.FunctionCountries, catalog.FunctionRegions, catalog.FunctionCities,
		catalog.FunctionGenres, catalog.FunctionFunds,
	}

	tests := []struct {
		entity    catalog.Entity
		operation catalog.Operation
		want      []string
	}{
		{catalog.EntitySong, catalog.OperationUpdate, append(facets, catalog.FunctionSongs, catalog.FunctionGeotags, catalog.FunctionSong)},
		{catalog.EntityGenre, catalog.OperationUpdate, []string{catalog.FunctionGenres, catalog.FunctionSongs, catalog.FunctionSong}},
		{catalog.EntityGenre, catalog.OperationDelete, []string{catalog.FunctionGenres, catalog.FunctionSongs, catalog.FunctionGeotags}},
		{catalog.EntityFund, catalog.OperationDelete, []string{catalog.FunctionFunds, catalog.FunctionSongs, catalog.FunctionGeotags}},
		{catalog.EntityCountry, catalog.OperationCreate, []string{catalog.FunctionCountries, catalog.FunctionSongs, catalog.FunctionSong}},
		{catalog.EntityCity, catalog.OperationUpdate, append(facets, catalog.FunctionSongs, catalog.FunctionGeotags, catalog.FunctionSong)},
	}

	for _, tt := range tests {
		t.Run(string(tt.entity)+"/"+string(tt.operation), func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, catalog.AffectedFunctions(tt.entity, tt.operation))
		})
	}
}

/*
TestApply_DropsOnlyDeclaredFunctions verifies a genre delete keeps unrelated
entries such as the country facet.
*/
func TestApply_DropsOnlyDeclaredFunctions(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(100, time.Hour)
	coordinator := cache.NewCoordinator(store, "p", time.Hour)
	invalidator := catalog.NewInvalidator(coordinator, discardLogger())

	keys := coordinator.Keys()
	for _, key := range []string{
		keys.For(catalog.FunctionGenres, cache.Params{"fund_id": "1"}),
		keys.For(catalog.FunctionSongs, cache.Params{"page": "1"}),
		keys.For(catalog.FunctionCountries, cache.Params{}),
		keys.ForID(catalog.FunctionSong, 3),
	} {
		require.NoError(t, store.Set(ctx, key, []byte(`[]`), time.Hour))
	}

	require.NoError(t, invalidator.Apply(ctx, catalog.MutationEvent{Entity: catalog.EntityGenre, Operation: catalog.OperationDelete}))

	_, found, _ := store.Get(ctx, keys.For(catalog.FunctionGenres, cache.Params{"fund_id": "1"}))
	assert.False(t, found)
	_, found, _ = store.Get(ctx, keys.For(catalog.FunctionSongs, cache.Params{"page": "1"}))
	assert.False(t, found)
	_, found, _ = store.Get(ctx, keys.For(catalog.FunctionCountries, cache.Params{}))
	assert.True(t, found)
	_, found, _ = store.Get(ctx, keys.ForID(catalog.FunctionSong, 3))
	assert.True(t, found)
}

/*
TestApply_SongIDScopesDetail drops only the changed song's detail entry.
*/
func TestApply_SongIDScopesDetail(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(100, time.Hour)
	coordinator := cache.NewCoordinator(store, "p", time.Hour)
	invalidator := catalog.NewInvalidator(coordinator, discardLogger())

	keys := coordinator.Keys()
	require.NoError(t, store.Set(ctx, keys.ForID(catalog.FunctionSong, 3), []byte(`{}`), time.Hour))
	require.NoError(t, store.Set(ctx, keys.ForID(catalog.FunctionSong, 4), []byte(`{}`), time.Hour))

	require.NoError(t, invalidator.Apply(ctx, catalog.MutationEvent{
		Entity: catalog.EntitySong, Operation: catalog.OperationDelete, ID: pointer.To(3),
	}))

	_, found, _ := store.Get(ctx, keys.ForID(catalog.FunctionSong, 3))
	assert.False(t, found)
	_, found, _ = store.Get(ctx, keys.ForID(catalog.FunctionSong, 4))
	assert.True(t, found)
}

/*
TestHandleMessage covers the queue payload decoding.
*/
func TestHandleMessage(t *testing.T) {
	coordinator := cache.NewCoordinator(cache.NewMemoryStore(100, time.Hour), "p", time.Hour)
	invalidator := catalog.NewInvalidator(coordinator, discardLogger())
	ctx := context.Background()

	assert.NoError(t, invalidator.HandleMessage(ctx, []byte(`{"entity":"fund","operation":"update","id":4}`)))

	requireCode(t, invalidator.HandleMessage(ctx, []byte(`not json`)), "VALIDATION_ERROR")
	requireCode(t, invalidator.HandleMessage(ctx, []byte(`{"entity":"planet","operation":"update"}`)), "VALIDATION_ERROR")
	requireCode(t, invalidator.HandleMessage(ctx, []byte(`{"entity":"song","operation":"rename"}`)), "VALIDATION_ERROR")
	requireCode(t, invalidator.HandleMessage(ctx, []byte(`{"entity":"song","operation":"update","id":-3}`)), "VALIDATION_ERROR")
}
