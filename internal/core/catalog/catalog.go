// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog is the faceted discovery engine of the song catalogue.

Callers filter songs by any combination of country, region, city, genre and
fund (plus a title search) and receive:

  - Facets: one list per dimension, each value annotated with the number of
    distinct matching songs.
  - Results: a page of matching songs, newest identifier first.
  - Geotags: one map marker per city holding matching songs.
  - Point lookups: the full detail of a single song.

Two rules hold for every read: only active songs count, and songs belonging
to the education sub-catalogue (any row in core.songeducationgenre) never
appear.

Reads go through the response cache under a fixed set of logical function
names. Admin mutations invalidate those names through a single declared
table (see invalidation.go), and the [Guard] blocks deleting a genre or fund
that songs still reference.
*/
package catalog

// # Facet Dimensions

// Dimension is one filterable facet of the catalogue.
type Dimension string

const (
	DimensionCountry Dimension = "country"
	DimensionRegion  Dimension = "region"
	DimensionCity    Dimension = "city"
	DimensionGenre   Dimension = "genre"
	DimensionFund    Dimension = "fund"
)

// Dimensions lists every facet dimension in canonical order.
var Dimensions = []Dimension{DimensionCountry, DimensionRegion, DimensionCity, DimensionGenre, DimensionFund}

// Param returns the query parameter filtering by this dimension.
func (d Dimension) Param() string {
	return string(d) + "_id"
}

// Function returns the logical cache function name of this dimension's facet.
func (d Dimension) Function() string {
	switch d {
	case DimensionCountry:
		return FunctionCountries
	case DimensionRegion:
		return FunctionRegions
	case DimensionCity:
		return FunctionCities
	case DimensionGenre:
		return FunctionGenres
	case DimensionFund:
		return FunctionFunds
	}
	return ""
}

// label names the facet in "no data" errors.
func (d Dimension) label() string {
	switch d {
	case DimensionCountry:
		return "Countries"
	case DimensionRegion:
		return "Regions"
	case DimensionCity:
		return "Cities"
	case DimensionGenre:
		return "Genres"
	case DimensionFund:
		return "Funds"
	}
	return "Facet values"
}

// Valid reports whether d is a known dimension.
func (d Dimension) Valid() bool {
	return d.Function() != ""
}

// # Read Models

// FacetItem is one value of a facet with its distinct song count.
// Region rows also carry their country; city rows their country and region.
type FacetItem struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	SongCount int    `json:"song_count"`
	CountryID *int   `json:"country_id,omitempty"`
	RegionID  *int   `json:"region_id,omitempty"`
}

// GenreRef is a genre attached to a song.
type GenreRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SongSummary is one item of the paginated result list.
type SongSummary struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	RecordingDate *string    `json:"recording_date"`
	Performers    *string    `json:"performers"`
	CityID        int        `json:"city_id"`
	City          string     `json:"city"`
	Region        string     `json:"region"`
	Country       string     `json:"country"`
	FundID        *int       `json:"fund_id"`
	Fund          *string    `json:"fund"`
	Genres        []GenreRef `json:"genres"`
}

// Geotag is a map marker: one city with the number of matching songs.
// City reads "<city>, <region>".
type Geotag struct {
	ID        int      `json:"id"`
	City      string   `json:"city"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Photo     *string  `json:"photo"`
	SongCount int      `json:"song_count"`
}

// SongDetail is the full public view of a single song.
type SongDetail struct {
	ID                   int        `json:"id"`
	Title                string     `json:"title"`
	RecordingDate        *string    `json:"recording_date"`
	Performers           *string    `json:"performers"`
	Collectors           []string   `json:"collectors"`
	SongText             *string    `json:"song_text"`
	Description          *string    `json:"description"`
	EthnographicDistrict *string    `json:"ethnographic_district"`
	VideoURL             *string    `json:"video_url"`
	MapPhoto             *string    `json:"map_photo"`
	Comment              *string    `json:"comment"`
	Photos               []string   `json:"photos"`
	StereoAudio          *string    `json:"stereo_audio"`
	MultichannelAudio    []string   `json:"multichannel_audio"`
	CityID               int        `json:"city_id"`
	City                 string     `json:"city"`
	Region               string     `json:"region"`
	Country              string     `json:"country"`
	FundID               *int       `json:"fund_id"`
	Fund                 *string    `json:"fund"`
	Genres               []GenreRef `json:"genres"`
}
