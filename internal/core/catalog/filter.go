// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/songatlas/internal/platform/cache"
	"github.com/taibuivan/songatlas/internal/platform/validate"
)

// SearchMaxLen bounds the free-text title search.
const SearchMaxLen = 200

// # Filter

// Filter is the caller-supplied selection over the five dimensions plus a
// title search. Empty lists place no constraint on their dimension.
type Filter struct {
	CountryIDs []int
	RegionIDs  []int
	CityIDs    []int
	GenreIDs   []int
	FundIDs    []int
	Search     string
}

// IDs returns the identifier list of one dimension.
func (f Filter) IDs(d Dimension) []int {
	switch d {
	case DimensionCountry:
		return f.CountryIDs
	case DimensionRegion:
		return f.RegionIDs
	case DimensionCity:
		return f.CityIDs
	case DimensionGenre:
		return f.GenreIDs
	case DimensionFund:
		return f.FundIDs
	}
	return nil
}

// Validate rejects identifiers below one and oversized search terms.
func (f Filter) Validate() error {
	v := &validate.Validator{}
	for _, d := range Dimensions {
		v.PositiveIDs(d.Param(), f.IDs(d))
	}
	v.MaxLen("search", f.Search, SearchMaxLen)
	return v.Err()
}

/*
Normalize returns the canonical form of the filter.

Every list is sorted and de-duplicated. The search term is trimmed, inner
whitespace is collapsed to single spaces, and the result is NFC-normalised and
lower-cased. Two filters selecting the same songs normalise to equal values,
which is what makes cache keys independent of parameter order.
*/
func (f Filter) Normalize() Filter {
	return Filter{
		CountryIDs: canonicalIDs(f.CountryIDs),
		RegionIDs:  canonicalIDs(f.RegionIDs),
		CityIDs:    canonicalIDs(f.CityIDs),
		GenreIDs:   canonicalIDs(f.GenreIDs),
		FundIDs:    canonicalIDs(f.FundIDs),
		Search:     canonicalSearch(f.Search),
	}
}

/*
ForFacet returns the filter used to compute the facet of dimension d.

A single-valued dimension is never filtered by itself, so its own list is
dropped. Genre is many-valued: a supplied genre list still narrows the songs
being counted, but every genre those songs carry is reported.
*/
func (f Filter) ForFacet(d Dimension) Filter {
	out := f
	switch d {
	case DimensionCountry:
		out.CountryIDs = nil
	case DimensionRegion:
		out.RegionIDs = nil
	case DimensionCity:
		out.CityIDs = nil
	case DimensionFund:
		out.FundIDs = nil
	}
	return out
}

// CacheParams renders the filter as cache key parameters. Call it on a
// normalised filter.
func (f Filter) CacheParams() cache.Params {
	params := cache.Params{"search": f.Search}
	for _, d := range Dimensions {
		params[d.Param()] = cache.IntList(f.IDs(d))
	}
	return params
}

func canonicalIDs(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func canonicalSearch(term string) string {
	term = strings.Join(strings.Fields(term), " ")
	return strings.ToLower(norm.NFC.String(term))
}

// # Predicates

// Predicate is one conjunct of the song selection. Its fragment contains at
// most one "%s" which is replaced by a positional placeholder.
type Predicate struct {
	fragment string
	arg      any
}

// Predicates is an ordered conjunction.
type Predicates []Predicate

// dimensionPredicates holds the membership test per dimension. Location
// filters read the city row directly so no extra join is needed, and genre
// membership is a semi-join that never multiplies song rows.
var dimensionPredicates = map[Dimension]string{
	DimensionCountry: "c.countryid = ANY(%s)",
	DimensionRegion:  "c.regionid = ANY(%s)",
	DimensionCity:    "s.cityid = ANY(%s)",
	DimensionGenre:   "EXISTS (SELECT 1 FROM core.songgenre pg WHERE pg.songid = s.id AND pg.genreid = ANY(%s))",
	DimensionFund:    "s.fundid = ANY(%s)",
}

const (
	predicateActive       = "s.isactive = TRUE"
	predicateNotEducation = "NOT EXISTS (SELECT 1 FROM core.songeducationgenre eg WHERE eg.songid = s.id)"
	predicateSearch       = `s.title ILIKE '%%' || %s || '%%' ESCAPE '\'`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

/*
Compose folds a filter into its predicate list.

The active and education-exclusion predicates always come first, then one
predicate per non-empty dimension in [Dimensions] order, then the search.
Compose is pure. The filter is normalised first, so equivalent filters
compose to equal predicates.

Parameters:
  - filter: Filter

Returns:
  - Predicates
*/
func Compose(filter Filter) Predicates {
	filter = filter.Normalize()

	predicates := Predicates{
		{fragment: predicateActive},
		{fragment: predicateNotEducation},
	}

	for _, d := range Dimensions {
		if ids := filter.IDs(d); len(ids) > 0 {
			predicates = append(predicates, Predicate{fragment: dimensionPredicates[d], arg: ids})
		}
	}

	if filter.Search != "" {
		predicates = append(predicates, Predicate{fragment: predicateSearch, arg: likeEscaper.Replace(filter.Search)})
	}

	return predicates
}

// SQL renders the conjunction as a WHERE body. Placeholders start at
// nextArg and the returned args line up with them.
func (p Predicates) SQL(nextArg int) (string, []any) {
	parts := make([]string, 0, len(p))
	args := make([]any, 0, len(p))

	for _, predicate := range p {
		if predicate.arg == nil {
			parts = append(parts, predicate.fragment)
			continue
		}
		parts = append(parts, fmt.Sprintf(predicate.fragment, fmt.Sprintf("$%d", nextArg)))
		args = append(args, predicate.arg)
		nextArg++
	}

	return strings.Join(parts, " AND "), args
}
