// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/songatlas/internal/platform/apperr"
	"github.com/taibuivan/songatlas/internal/platform/cache"
	"github.com/taibuivan/songatlas/internal/platform/validate"
)

// # Logical Function Names

// Every cached read is stored under one of these names.
const (
	FunctionCountries = "get_countries"
	FunctionRegions   = "get_regions"
	FunctionCities    = "get_cities"
	FunctionGenres    = "get_genres"
	FunctionFunds     = "get_funds"
	FunctionSongs     = "filter_songs"
	FunctionGeotags   = "filter_song_geotags"
	FunctionSong      = "get_song"
)

// # Mutation Events

// Entity is a catalogue entity whose writes are announced by the admin surface.
type Entity string

const (
	EntitySong    Entity = "song"
	EntityGenre   Entity = "genre"
	EntityFund    Entity = "fund"
	EntityCountry Entity = "country"
	EntityRegion  Entity = "region"
	EntityCity    Entity = "city"
)

// Operation is the kind of write.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// MutationEvent announces a committed write. ID is optional and only narrows
// id-scoped entries such as a single song's detail.
type MutationEvent struct {
	Entity    Entity    `json:"entity"`
	Operation Operation `json:"operation"`
	ID        *int      `json:"id,omitempty"`
}

// Validate checks the event against the invalidation table.
func (e MutationEvent) Validate() error {
	v := &validate.Validator{}

	_, known := invalidationTable[e.Entity]
	v.Custom("entity", !known, fmt.Sprintf("Unknown entity %q", e.Entity))
	v.OneOf("operation", string(e.Operation), string(OperationCreate), string(OperationUpdate), string(OperationDelete))
	v.Custom("id", e.ID != nil && *e.ID < 1, "Must be a positive identifier")

	return v.Err()
}

// # Invalidation Table

// invalidation lists what one mutation makes stale. Entries in byID hold a
// single record each, so they are dropped by identifier when the event has
// one and wholesale otherwise.
type invalidation struct {
	functions []string
	byID      []string
}

var (
	allFacets = []string{FunctionCountries, FunctionRegions, FunctionCities, FunctionGenres, FunctionFunds}

	songChange = invalidation{
		functions: append(append([]string{}, allFacets...), FunctionSongs, FunctionGeotags),
		byID:      []string{FunctionSong},
	}
)

/*
invalidationTable is the single declared mapping from a mutation to the cached
functions it can make stale.

A song write can move counts in every facet. So can a city write, since
moving a city to another region or country moves its songs with it. A
taxonomy rename changes labels inside listings and song details, while a
taxonomy delete can only happen once no song references the value, so it
drops the facet and the listings.
*/
var invalidationTable = map[Entity]map[Operation]invalidation{
	EntitySong: {
		OperationCreate: songChange,
		OperationUpdate: songChange,
		OperationDelete: songChange,
	},
	EntityGenre: {
		OperationCreate: {functions: []string{FunctionGenres, FunctionSongs, FunctionSong}},
		OperationUpdate: {functions: []string{FunctionGenres, FunctionSongs, FunctionSong}},
		OperationDelete: {functions: []string{FunctionGenres, FunctionSongs, FunctionGeotags}},
	},
	EntityFund: {
		OperationCreate: {functions: []string{FunctionFunds, FunctionSongs, FunctionSong}},
		OperationUpdate: {functions: []string{FunctionFunds, FunctionSongs, FunctionSong}},
		OperationDelete: {functions: []string{FunctionFunds, FunctionSongs, FunctionGeotags}},
	},
	EntityCountry: sameForAll(invalidation{functions: []string{FunctionCountries, FunctionSongs, FunctionSong}}),
	EntityRegion:  sameForAll(invalidation{functions: []string{FunctionRegions, FunctionSongs, FunctionGeotags, FunctionSong}}),
	EntityCity:    sameForAll(invalidation{functions: append(append([]string{}, allFacets...), FunctionSongs, FunctionGeotags, FunctionSong)}),
}

func sameForAll(entry invalidation) map[Operation]invalidation {
	return map[Operation]invalidation{
		OperationCreate: entry,
		OperationUpdate: entry,
		OperationDelete: entry,
	}
}

// AffectedFunctions returns every function name a mutation invalidates,
// whether wholesale or by identifier.
func AffectedFunctions(entity Entity, operation Operation) []string {
	entry := invalidationTable[entity][operation]
	return append(append([]string{}, entry.functions...), entry.byID...)
}

// # Invalidator

// Invalidator applies mutation events to the response cache.
type Invalidator struct {
	cache  *cache.Coordinator
	logger *slog.Logger
}

// NewInvalidator creates an invalidator over the given coordinator.
func NewInvalidator(coordinator *cache.Coordinator, logger *slog.Logger) *Invalidator {
	return &Invalidator{cache: coordinator, logger: logger}
}

/*
Apply drops every cached entry the mutation could have made stale.

Parameters:
  - ctx: context.Context
  - event: MutationEvent

Returns:
  - error: validation error for unknown events, or the joined cache failures
*/
func (invalidator *Invalidator) Apply(ctx context.Context, event MutationEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	entry := invalidationTable[event.Entity][event.Operation]

	err := errors.Join(
		invalidator.cache.Invalidate(ctx, entry.functions, nil),
		invalidator.cache.Invalidate(ctx, entry.byID, event.ID),
	)
	if err != nil {
		invalidator.logger.Warn("cache_invalidation_failed",
			slog.String("entity", string(event.Entity)),
			slog.String("operation", string(event.Operation)),
			slog.Any("error", err),
		)
		return apperr.Internal(fmt.Errorf("invalidate %s %s: %w", event.Entity, event.Operation, err))
	}

	invalidator.logger.Info("cache_invalidated",
		slog.String("entity", string(event.Entity)),
		slog.String("operation", string(event.Operation)),
		slog.Any("functions", AffectedFunctions(event.Entity, event.Operation)),
	)
	return nil
}

// HandleMessage decodes a queued mutation event and applies it. It matches
// the broker's handler signature.
func (invalidator *Invalidator) HandleMessage(ctx context.Context, body []byte) error {
	var event MutationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return apperr.ValidationError("Malformed mutation event")
	}
	return invalidator.Apply(ctx, event)
}
