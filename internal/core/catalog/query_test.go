package catalog

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var whitespace = regexp.MustCompile(`\s+`)

func flat(query string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(query, " "))
}

func TestFacetQuery_Shapes(t *testing.T) {
	tests := []struct {
		dimension Dimension
		contains  []string
		orderBy   string
	}{
		{DimensionCountry, []string{"SELECT co.id, co.name, NULL::int, NULL::int, COUNT(DISTINCT s.id)", "JOIN core.country co ON co.id = c.countryid"}, "ORDER BY co.name, co.id"},
		{DimensionRegion, []string{"r.id, r.name, r.countryid, NULL::int", "JOIN core.region r ON r.id = c.regionid"}, "ORDER BY r.name, r.id"},
		{DimensionCity, []string{"c.id, c.name, c.countryid, c.regionid"}, "ORDER BY c.name, c.id"},
		{DimensionGenre, []string{"JOIN core.songgenre sg ON sg.songid = s.id JOIN core.genre g ON g.id = sg.genreid"}, "ORDER BY g.id"},
		{DimensionFund, []string{"JOIN core.fund f ON f.id = s.fundid"}, "ORDER BY f.id"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dimension), func(t *testing.T) {
			query, args := facetQuery(tt.dimension, Filter{})
			sql := flat(query)

			assert.Contains(t, sql, "FROM core.song s JOIN core.city c ON c.id = s.cityid")
			assert.Contains(t, sql, "COUNT(DISTINCT s.id)")
			assert.Contains(t, sql, "WHERE "+invariantsSQL())
			for _, fragment := range tt.contains {
				assert.Contains(t, sql, fragment)
			}
			assert.True(t, strings.HasSuffix(sql, tt.orderBy), sql)
			assert.Empty(t, args)
		})
	}
}

func TestFacetQuery_GenreFilterScopesRecordSet(t *testing.T) {
	query, args := facetQuery(DimensionGenre, Filter{GenreIDs: []int{2}}.ForFacet(DimensionGenre))
	sql := flat(query)

	// The filter is a semi-join on its own alias, so grouped genres stay unrestricted
	assert.Contains(t, sql, "pg.genreid = ANY($1)")
	assert.NotContains(t, sql, "sg.genreid = ANY")
	assert.Equal(t, []any{[]int{2}}, args)
}

func TestListQuery(t *testing.T) {
	query, args := listQuery(Filter{CountryIDs: []int{1}, Search: "lullaby"}, 50, 100)
	sql := flat(query)

	assert.Contains(t, sql, "COUNT(*) OVER()")
	assert.Contains(t, sql, "json_agg(json_build_object('id', g.id, 'name', g.name) ORDER BY g.id)")
	assert.Contains(t, sql, "LEFT JOIN core.fund f ON f.id = s.fundid")
	assert.True(t, strings.HasSuffix(sql, "ORDER BY s.id DESC LIMIT $3 OFFSET $4"), sql)
	assert.Equal(t, []any{[]int{1}, "lullaby", 50, 100}, args)
}

func TestGeotagQuery(t *testing.T) {
	query, args := geotagQuery(Filter{FundIDs: []int{4}})
	sql := flat(query)

	assert.Contains(t, sql, "c.name || ', ' || r.name")
	assert.Contains(t, sql, "COUNT(DISTINCT s.id)")
	assert.True(t, strings.HasSuffix(sql, "ORDER BY c.id"), sql)
	assert.Equal(t, []any{[]int{4}}, args)
}

func TestSongQuery(t *testing.T) {
	query, args := songQuery(42)
	sql := flat(query)

	assert.Contains(t, sql, "WHERE s.id = $1 AND "+invariantsSQL())
	assert.Contains(t, sql, "s.multichannelaudio, to_char(s.recordingdate, 'YYYY-MM-DD')")
	assert.Equal(t, []any{42}, args)
}

func TestTaxonQueries(t *testing.T) {
	genre := flat(blockingSongsQuery(TaxonGenre))
	assert.Contains(t, genre, "SELECT songid FROM core.songgenre WHERE genreid = $1 UNION SELECT songid FROM core.songeducationgenre WHERE genreid = $1")
	assert.Contains(t, genre, "COUNT(*) OVER()")
	assert.True(t, strings.HasSuffix(genre, "ORDER BY s.title, s.id LIMIT $2"))
	assert.NotContains(t, genre, "isactive")

	fund := flat(blockingSongsQuery(TaxonFund))
	assert.Contains(t, fund, "SELECT id FROM core.song WHERE fundid = $1")

	assert.Equal(t, "DELETE FROM core.fund WHERE id = $1", deleteTaxonQuery(TaxonFund))
	assert.Equal(t, "SELECT name FROM core.genre WHERE id = $1", findTaxonQuery(TaxonGenre))
}

func invariantsSQL() string {
	clause, args := Compose(Filter{}).SQL(1)
	if len(args) != 0 {
		panic("invariants must not bind arguments")
	}
	return clause
}

func TestDimension_Function(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Dimensions {
		require.True(t, d.Valid())
		assert.False(t, seen[d.Function()], "duplicate function for %s", d)
		seen[d.Function()] = true
	}
	assert.False(t, Dimension("planet").Valid())
}
