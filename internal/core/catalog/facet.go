// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"fmt"

	"github.com/taibuivan/songatlas/internal/platform/database/schema"
)

// songSource is the FROM clause shared by every catalogue read. Predicates
// address the song as "s" and its city as "c".
var songSource = fmt.Sprintf("%s s JOIN %s c ON c.%s = s.%s",
	schema.CoreSong.Table, schema.CoreCity.Table, schema.CoreCity.ID, schema.CoreSong.CityID)

// facetShape describes how one dimension groups the filtered songs.
//
// Every shape selects (id, name, country_id, region_id) so rows scan into
// [FacetItem] uniformly.
type facetShape struct {
	columns string
	joins   string
	groupBy string
	orderBy string
}

var facetShapes = map[Dimension]facetShape{
	DimensionCountry: {
		columns: "co.id, co.name, NULL::int, NULL::int",
		joins:   fmt.Sprintf("JOIN %s co ON co.%s = c.%s", schema.CoreCountry.Table, schema.CoreCountry.ID, schema.CoreCity.CountryID),
		groupBy: "co.id, co.name",
		orderBy: "co.name, co.id",
	},
	DimensionRegion: {
		columns: "r.id, r.name, r.countryid, NULL::int",
		joins:   fmt.Sprintf("JOIN %s r ON r.%s = c.%s", schema.CoreRegion.Table, schema.CoreRegion.ID, schema.CoreCity.RegionID),
		groupBy: "r.id, r.name, r.countryid",
		orderBy: "r.name, r.id",
	},
	DimensionCity: {
		columns: "c.id, c.name, c.countryid, c.regionid",
		groupBy: "c.id, c.name, c.countryid, c.regionid",
		orderBy: "c.name, c.id",
	},
	DimensionGenre: {
		columns: "g.id, g.name, NULL::int, NULL::int",
		joins: fmt.Sprintf("JOIN %s sg ON sg.%s = s.%s JOIN %s g ON g.%s = sg.%s",
			schema.CoreSongGenre.Table, schema.CoreSongGenre.SongID, schema.CoreSong.ID,
			schema.CoreGenre.Table, schema.CoreGenre.ID, schema.CoreSongGenre.GenreID),
		groupBy: "g.id, g.name",
		orderBy: "g.id",
	},
	DimensionFund: {
		columns: "f.id, f.title, NULL::int, NULL::int",
		joins:   fmt.Sprintf("JOIN %s f ON f.%s = s.%s", schema.CoreFund.Table, schema.CoreFund.ID, schema.CoreSong.FundID),
		groupBy: "f.id, f.title",
		orderBy: "f.id",
	},
}

/*
facetQuery builds the grouped distinct-count query for one dimension.

The genre join fans a song out to one row per genre, and that is exactly the
grouping wanted. COUNT(DISTINCT s.id) keeps every count at the number of
songs no matter how rows multiply. Values with no matching song never form a
group, so zero counts cannot appear.

Parameters:
  - d: Dimension
  - filter: Filter (already narrowed with [Filter.ForFacet])

Returns:
  - string: SQL
  - []any: positional arguments
*/
func facetQuery(d Dimension, filter Filter) (string, []any) {
	shape := facetShapes[d]
	where, args := Compose(filter).SQL(1)

	query := fmt.Sprintf(`
		SELECT %s, COUNT(DISTINCT s.id)
		FROM %s
		%s
		WHERE %s
		GROUP BY %s
		ORDER BY %s`,
		shape.columns, songSource, shape.joins, where, shape.groupBy, shape.orderBy,
	)

	return query, args
}
