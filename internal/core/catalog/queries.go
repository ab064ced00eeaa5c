package catalog

import (
	"fmt"
	"strings"

	"github.com/taibuivan/songatlas/internal/platform/database/schema"
)

// hierarchyJoins resolves the region, country and optional fund of a song.
var hierarchyJoins = fmt.Sprintf(`
		JOIN %s r ON r.%s = c.%s
		JOIN %s co ON co.%s = c.%s
		LEFT JOIN %s f ON f.%s = s.%s`,
	schema.CoreRegion.Table, schema.CoreRegion.ID, schema.CoreCity.RegionID,
	schema.CoreCountry.Table, schema.CoreCountry.ID, schema.CoreCity.CountryID,
	schema.CoreFund.Table, schema.CoreFund.ID, schema.CoreSong.FundID,
)

// genreList aggregates the public genres of song "s" into a JSON array in a
// correlated sub-select, so the outer query keeps one row per song.
var genreList = fmt.Sprintf(`(
			SELECT COALESCE(json_agg(json_build_object('id', g.id, 'name', g.name) ORDER BY g.id), '[]'::json)
			FROM %s sg JOIN %s g ON g.%s = sg.%s
			WHERE sg.%s = s.%s
		)`,
	schema.CoreSongGenre.Table, schema.CoreGenre.Table, schema.CoreGenre.ID, schema.CoreSongGenre.GenreID,
	schema.CoreSongGenre.SongID, schema.CoreSong.ID,
)

// listQuery pages the filtered songs, newest identifier first, and carries
// the full match count on every row through a window.
func listQuery(filter Filter, limit, offset int) (string, []any) {
	where, args := Compose(filter).SQL(1)

	query := fmt.Sprintf(`
		SELECT s.id, s.title, to_char(s.recordingdate, 'YYYY-MM-DD'), s.performers,
		       c.id, c.name, r.name, co.name, f.id, f.title,
		       %s,
		       COUNT(*) OVER()
		FROM %s
		%s
		WHERE %s
		ORDER BY s.id DESC
		LIMIT $%d OFFSET $%d`,
		genreList, songSource, hierarchyJoins, where, len(args)+1, len(args)+2,
	)

	return query, append(args, limit, offset)
}

// geotagQuery groups the filtered songs by city.
func geotagQuery(filter Filter) (string, []any) {
	where, args := Compose(filter).SQL(1)

	query := fmt.Sprintf(`
		SELECT c.id, c.name || ', ' || r.name, c.latitude, c.longitude, c.photo, COUNT(DISTINCT s.id)
		FROM %s
		JOIN %s r ON r.%s = c.%s
		WHERE %s
		GROUP BY c.id, c.name, r.name, c.latitude, c.longitude, c.photo
		ORDER BY c.id`,
		songSource, schema.CoreRegion.Table, schema.CoreRegion.ID, schema.CoreCity.RegionID, where,
	)

	return query, args
}

// songQuery reads one public song. The same invariants as the listing apply,
// so an inactive or education song is simply not found.
func songQuery(id int) (string, []any) {
	where, args := Compose(Filter{}).SQL(2)

	columns := []string{
		schema.CoreSong.ID, schema.CoreSong.Title, schema.CoreSong.Performers,
		schema.CoreSong.Collectors, schema.CoreSong.SongText, schema.CoreSong.Description,
		schema.CoreSong.EthnographicDistrict, schema.CoreSong.VideoURL, schema.CoreSong.MapPhoto,
		schema.CoreSong.Comment, schema.CoreSong.Photos, schema.CoreSong.StereoAudio,
		schema.CoreSong.MultichannelAudio,
	}

	query := fmt.Sprintf(`
		SELECT s.%s, to_char(s.%s, 'YYYY-MM-DD'),
		       c.id, c.name, r.name, co.name, f.id, f.title,
		       %s
		FROM %s
		%s
		WHERE s.%s = $1 AND %s`,
		strings.Join(columns, ", s."), schema.CoreSong.RecordingDate,
		genreList, songSource, hierarchyJoins, schema.CoreSong.ID, where,
	)

	return query, append([]any{id}, args...)
}

// # Taxonomy Queries

// taxonTables maps a guarded taxon to its table, display column and the
// association tables that reference it.
var taxonTables = map[Taxon]struct {
	table   string
	display string
	links   []string
}{
	TaxonGenre: {
		table:   schema.CoreGenre.Table,
		display: schema.CoreGenre.Name,
		links: []string{
			fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", schema.CoreSongGenre.SongID, schema.CoreSongGenre.Table, schema.CoreSongGenre.GenreID),
			fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", schema.CoreSongEducationGenre.SongID, schema.CoreSongEducationGenre.Table, schema.CoreSongEducationGenre.GenreID),
		},
	},
	TaxonFund: {
		table:   schema.CoreFund.Table,
		display: schema.CoreFund.Title,
		links: []string{
			fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", schema.CoreSong.ID, schema.CoreSong.Table, schema.CoreSong.FundID),
		},
	},
}

// findTaxonQuery reads the display name of a genre or fund.
func findTaxonQuery(taxon Taxon) string {
	t := taxonTables[taxon]
	return fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", t.display, t.table)
}

/*
blockingSongsQuery lists the songs referencing a taxon, regardless of their
active or education state, alphabetically and capped at $2. Every row also
carries the uncapped total.
*/
func blockingSongsQuery(taxon Taxon) string {
	t := taxonTables[taxon]
	return fmt.Sprintf(`
		SELECT s.%s, COUNT(*) OVER()
		FROM %s s
		WHERE s.%s IN (%s)
		ORDER BY s.%s, s.%s
		LIMIT $2`,
		schema.CoreSong.Title, schema.CoreSong.Table, schema.CoreSong.ID,
		strings.Join(t.links, " UNION "), schema.CoreSong.Title, schema.CoreSong.ID,
	)
}

// deleteTaxonQuery removes a genre or fund row.
func deleteTaxonQuery(taxon Taxon) string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = $1", taxonTables[taxon].table)
}
