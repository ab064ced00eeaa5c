// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/taibuivan/songatlas/internal/platform/apperr"
	"github.com/taibuivan/songatlas/internal/platform/cache"
	"github.com/taibuivan/songatlas/internal/platform/dberr"
	"github.com/taibuivan/songatlas/internal/platform/validate"
	"github.com/taibuivan/songatlas/pkg/pagination"
)

// Service serves the cached discovery reads.
type Service struct {
	repo         Repository
	cache        *cache.Coordinator
	queryTimeout time.Duration
}

// NewService creates a new catalogue [Service].
func NewService(repo Repository, coordinator *cache.Coordinator, queryTimeout time.Duration) *Service {
	return &Service{repo: repo, cache: coordinator, queryTimeout: queryTimeout}
}

// # Facets

/*
Facet returns the values of dimension d that still hold songs under the
filter, each with its distinct song count.

Parameters:
  - ctx: context.Context
  - d: Dimension
  - filter: Filter

Returns:
  - []FacetItem: never empty
  - error: validation, NotFound when nothing matches, Timeout or Internal
*/
func (service *Service) Facet(ctx context.Context, d Dimension, filter Filter) ([]FacetItem, error) {
	if !d.Valid() {
		return nil, apperr.ValidationError("Unknown facet dimension " + string(d))
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	scoped := filter.Normalize().ForFacet(d)

	return cache.Cached(ctx, service.cache, d.Function(), scoped.CacheParams(), func(ctx context.Context) ([]FacetItem, error) {
		queryCtx, cancel := context.WithTimeout(ctx, service.queryTimeout)
		defer cancel()

		items, err := service.repo.Facet(queryCtx, d, scoped)
		if err != nil {
			return nil, dberr.Wrap(err, "facet "+string(d))
		}
		if len(items) == 0 {
			return nil, apperr.NotFound(d.label())
		}
		return items, nil
	})
}

// # Results

// ListSongs returns one page of filtered songs, highest identifier first.
// An empty page is NotFound.
func (service *Service) ListSongs(ctx context.Context, filter Filter, page pagination.Params) (pagination.Page[SongSummary], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[SongSummary]{}, err
	}

	page = page.Normalize()
	v := &validate.Validator{}
	if err := v.Range("page", page.Page, 1, pagination.MaxPage).Err(); err != nil {
		return pagination.Page[SongSummary]{}, err
	}

	filter = filter.Normalize()

	params := filter.CacheParams()
	params["page"] = strconv.Itoa(page.Page)
	params["size"] = strconv.Itoa(page.Size)

	return cache.Cached(ctx, service.cache, FunctionSongs, params, func(ctx context.Context) (pagination.Page[SongSummary], error) {
		queryCtx, cancel := context.WithTimeout(ctx, service.queryTimeout)
		defer cancel()

		songs, total, err := service.repo.ListSongs(queryCtx, filter, page.Size, page.Offset())
		if err != nil {
			return pagination.Page[SongSummary]{}, dberr.Wrap(err, "list songs")
		}
		if len(songs) == 0 {
			return pagination.Page[SongSummary]{}, apperr.NotFound("Songs")
		}
		return pagination.NewPage(songs, page, total), nil
	})
}

// # Geotags

// Geotags returns one map marker per city holding filtered songs.
func (service *Service) Geotags(ctx context.Context, filter Filter) ([]Geotag, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	filter = filter.Normalize()

	return cache.Cached(ctx, service.cache, FunctionGeotags, filter.CacheParams(), func(ctx context.Context) ([]Geotag, error) {
		queryCtx, cancel := context.WithTimeout(ctx, service.queryTimeout)
		defer cancel()

		tags, err := service.repo.Geotags(queryCtx, filter)
		if err != nil {
			return nil, dberr.Wrap(err, "geotags")
		}
		if len(tags) == 0 {
			return nil, apperr.NotFound("Geotags")
		}
		return tags, nil
	})
}

// # Point Lookup

// GetSong returns the detail of one public song.
func (service *Service) GetSong(ctx context.Context, id int) (*SongDetail, error) {
	if id < 1 {
		return nil, apperr.ValidationError("Song id must be a positive integer")
	}

	return cache.CachedByID(ctx, service.cache, FunctionSong, id, func(ctx context.Context) (*SongDetail, error) {
		queryCtx, cancel := context.WithTimeout(ctx, service.queryTimeout)
		defer cancel()

		song, err := service.repo.FindSong(queryCtx, id)
		if err != nil {
			return nil, dberr.Wrap(err, "get song")
		}
		return song, nil
	})
}
