package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/songatlas/internal/platform/apperr"
	"github.com/taibuivan/songatlas/internal/platform/dberr"
)

// PostgresRepository implements [Repository] and [TaxonomyRepository].
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new catalogue repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Discovery Reads

func (repository *PostgresRepository) Facet(ctx context.Context, d Dimension, filter Filter) ([]FacetItem, error) {
	query, args := facetQuery(d, filter)

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, fmt.Sprintf("count %s facet", d))
	}
	defer rows.Close()

	items := []FacetItem{}
	for rows.Next() {
		var item FacetItem
		if err := rows.Scan(&item.ID, &item.Name, &item.CountryID, &item.RegionID, &item.SongCount); err != nil {
			return nil, dberr.Wrap(err, fmt.Sprintf("scan %s facet", d))
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, fmt.Sprintf("iterate %s facet", d))
	}

	return items, nil
}

func (repository *PostgresRepository) ListSongs(ctx context.Context, filter Filter, limit, offset int) ([]SongSummary, int, error) {
	query, args := listQuery(filter, limit, offset)

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list songs")
	}
	defer rows.Close()

	var total int
	songs := []SongSummary{}
	for rows.Next() {
		var song SongSummary
		if err := rows.Scan(
			&song.ID, &song.Title, &song.RecordingDate, &song.Performers,
			&song.CityID, &song.City, &song.Region, &song.Country, &song.FundID, &song.Fund,
			&song.Genres, &total,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan song")
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate songs")
	}

	return songs, total, nil
}

func (repository *PostgresRepository) Geotags(ctx context.Context, filter Filter) ([]Geotag, error) {
	query, args := geotagQuery(filter)

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "group songs by city")
	}
	defer rows.Close()

	tags := []Geotag{}
	for rows.Next() {
		var tag Geotag
		if err := rows.Scan(&tag.ID, &tag.City, &tag.Latitude, &tag.Longitude, &tag.Photo, &tag.SongCount); err != nil {
			return nil, dberr.Wrap(err, "scan geotag")
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate geotags")
	}

	return tags, nil
}

func (repository *PostgresRepository) FindSong(ctx context.Context, id int) (*SongDetail, error) {
	query, args := songQuery(id)

	song := &SongDetail{}
	err := repository.db.QueryRow(ctx, query, args...).Scan(
		&song.ID, &song.Title, &song.Performers,
		&song.Collectors, &song.SongText, &song.Description,
		&song.EthnographicDistrict, &song.VideoURL, &song.MapPhoto,
		&song.Comment, &song.Photos, &song.StereoAudio,
		&song.MultichannelAudio, &song.RecordingDate,
		&song.CityID, &song.City, &song.Region, &song.Country, &song.FundID, &song.Fund,
		&song.Genres,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Song")
		}
		return nil, dberr.Wrap(err, "find song")
	}

	return song, nil
}

// # Taxonomy

func (repository *PostgresRepository) FindTaxon(ctx context.Context, taxon Taxon, id int) (string, error) {
	var name string
	if err := repository.db.QueryRow(ctx, findTaxonQuery(taxon), id).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound(taxon.label())
		}
		return "", dberr.Wrap(err, "find "+string(taxon))
	}
	return name, nil
}

func (repository *PostgresRepository) BlockingSongs(ctx context.Context, taxon Taxon, id, limit int) ([]string, int, error) {
	rows, err := repository.db.Query(ctx, blockingSongsQuery(taxon), id, limit)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list songs blocking "+string(taxon))
	}
	defer rows.Close()

	var (
		titles []string
		total  int
	)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan blocking song")
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate blocking songs")
	}

	return titles, total, nil
}

func (repository *PostgresRepository) DeleteTaxon(ctx context.Context, taxon Taxon, id int) error {
	tag, err := repository.db.Exec(ctx, deleteTaxonQuery(taxon), id)
	if err != nil {
		return dberr.Wrap(err, "delete "+string(taxon))
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(taxon.label())
	}
	return nil
}
