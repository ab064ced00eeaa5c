// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "context"

// Repository defines the read-only data access of the discovery engine.
//
// Implementations apply the filter exactly as given. Narrowing a filter for
// a facet is the caller's job.
type Repository interface {
	// Facet groups the filtered songs by one dimension.
	Facet(ctx context.Context, d Dimension, filter Filter) ([]FacetItem, error)

	// ListSongs returns one page of filtered songs and the total match count.
	// A page past the end is empty and its total is not reported.
	ListSongs(ctx context.Context, filter Filter, limit, offset int) ([]SongSummary, int, error)

	// Geotags groups the filtered songs by city.
	Geotags(ctx context.Context, filter Filter) ([]Geotag, error)

	// FindSong returns one public song or a NotFound error.
	FindSong(ctx context.Context, id int) (*SongDetail, error)
}

// TaxonomyRepository supports guarded deletes of genres and funds.
type TaxonomyRepository interface {
	// FindTaxon returns the display name of a genre or fund, or NotFound.
	FindTaxon(ctx context.Context, taxon Taxon, id int) (string, error)

	// BlockingSongs returns up to limit titles of songs referencing the taxon
	// and the total number of such songs.
	BlockingSongs(ctx context.Context, taxon Taxon, id, limit int) ([]string, int, error)

	// DeleteTaxon removes the row. A missing row yields NotFound and a
	// reference created meanwhile yields a Conflict.
	DeleteTaxon(ctx context.Context, taxon Taxon, id int) error
}
