// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/songatlas/internal/core/catalog"
	"github.com/taibuivan/songatlas/internal/platform/apperr"
	"github.com/taibuivan/songatlas/internal/platform/cache"
	"github.com/taibuivan/songatlas/pkg/pointer"
	"github.com/taibuivan/songatlas/pkg/slice"
)

type region struct {
	name      string
	countryID int
}

type city struct {
	name      string
	regionID  int
	countryID int
}

type song struct {
	id        int
	title     string
	cityID    int
	fundID    *int
	genres    []int
	eduGenres []int
	active    bool
}

/*
fakeRepository evaluates filters over an in-memory hierarchy. It counts
songs independently of the SQL builders, so service tests check the
observable contract rather than the query text.
*/
type fakeRepository struct {
	mu sync.Mutex

	countries map[int]string
	regions   map[int]region
	cities    map[int]city
	genres    map[int]string
	funds     map[int]string
	songs     []song

	calls map[string]int
	err   error
	delay time.Duration
}

// newScenario builds the reference fixture: one country, one region, one
// city, a public Folk genre, an education-only genre and two active songs,
// the second belonging to the education sub-catalogue.
func newScenario() *fakeRepository {
	return &fakeRepository{
		countries: map[int]string{1: "Ukraine"},
		regions:   map[int]region{1: {name: "Lviv", countryID: 1}},
		cities:    map[int]city{10: {name: "Lviv-city", regionID: 1, countryID: 1}},
		genres:    map[int]string{1: "Folk", 2: "EduSong"},
		funds:     map[int]string{},
		songs: []song{
			{id: 1, title: "R1", cityID: 10, genres: []int{1}, active: true},
			{id: 2, title: "R2", cityID: 10, eduGenres: []int{2}, active: true},
		},
		calls: map[string]int{},
	}
}

// newAtlas builds a wider fixture spanning two countries.
func newAtlas() *fakeRepository {
	return &fakeRepository{
		countries: map[int]string{1: "Ukraine", 2: "Poland"},
		regions: map[int]region{
			1: {name: "Lviv", countryID: 1},
			2: {name: "Kyiv", countryID: 1},
			3: {name: "Lesser Poland", countryID: 2},
		},
		cities: map[int]city{
			10: {name: "Lviv-city", regionID: 1, countryID: 1},
			11: {name: "Bortnychi", regionID: 2, countryID: 1},
			12: {name: "Krakow", regionID: 3, countryID: 2},
		},
		genres: map[int]string{1: "Folk", 2: "Carol", 3: "Lullaby", 9: "EduSong"},
		funds:  map[int]string{1: "Archive A", 2: "Archive B"},
		songs: []song{
			{id: 1, title: "Oi u luzi", cityID: 10, fundID: pointer.To(1), genres: []int{1, 2}, active: true},
			{id: 2, title: "Shchedryk", cityID: 10, fundID: pointer.To(1), genres: []int{2}, active: true},
			{id: 3, title: "Kolyskova", cityID: 11, fundID: pointer.To(2), genres: []int{3}, active: true},
			{id: 4, title: "Hidden draft", cityID: 11, genres: []int{1}, active: false},
			{id: 5, title: "Lesson song", cityID: 12, genres: []int{1}, eduGenres: []int{9}, active: true},
			{id: 6, title: "Krakowiak", cityID: 12, fundID: pointer.To(2), genres: []int{1}, active: true},
		},
		calls: map[string]int{},
	}
}

func newService(repo *fakeRepository) (*catalog.Service, *catalog.Invalidator, *cache.Coordinator) {
	coordinator := cache.NewCoordinator(cache.NewMemoryStore(1000, time.Hour), "test-cache", time.Hour)
	invalidator := catalog.NewInvalidator(coordinator, discardLogger())
	return catalog.NewService(repo, coordinator, time.Second), invalidator, coordinator
}

func (repo *fakeRepository) callCount(name string) int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.calls[name]
}

func (repo *fakeRepository) enter(ctx context.Context, name string) error {
	repo.mu.Lock()
	repo.calls[name]++
	err, delay := repo.err, repo.delay
	repo.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func hasAny(values, wanted []int) bool {
	return slices.ContainsFunc(values, func(v int) bool { return slices.Contains(wanted, v) })
}

func in(value int, wanted []int) bool {
	return len(wanted) == 0 || slices.Contains(wanted, value)
}

func (repo *fakeRepository) matching(filter catalog.Filter) []song {
	return slice.Filter(repo.songs, func(s song) bool {
		c := repo.cities[s.cityID]
		switch {
		case !s.active, len(s.eduGenres) > 0:
			return false
		case !in(c.countryID, filter.CountryIDs), !in(c.regionID, filter.RegionIDs), !in(s.cityID, filter.CityIDs):
			return false
		case len(filter.GenreIDs) > 0 && !hasAny(s.genres, filter.GenreIDs):
			return false
		case len(filter.FundIDs) > 0 && (s.fundID == nil || !slices.Contains(filter.FundIDs, *s.fundID)):
			return false
		}
		return filter.Search == "" || strings.Contains(strings.ToLower(s.title), filter.Search)
	})
}

// # Repository

func (repo *fakeRepository) Facet(ctx context.Context, d catalog.Dimension, filter catalog.Filter) ([]catalog.FacetItem, error) {
	if err := repo.enter(ctx, "facet:"+string(d)); err != nil {
		return nil, err
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	groups := map[int]map[int]bool{}
	add := func(key, songID int) {
		if groups[key] == nil {
			groups[key] = map[int]bool{}
		}
		groups[key][songID] = true
	}

	for _, s := range repo.matching(filter) {
		c := repo.cities[s.cityID]
		switch d {
		case catalog.DimensionCountry:
			add(c.countryID, s.id)
		case catalog.DimensionRegion:
			add(c.regionID, s.id)
		case catalog.DimensionCity:
			add(s.cityID, s.id)
		case catalog.DimensionGenre:
			for _, g := range s.genres {
				add(g, s.id)
			}
		case catalog.DimensionFund:
			if s.fundID != nil {
				add(*s.fundID, s.id)
			}
		}
	}

	items := []catalog.FacetItem{}
	for id, songs := range groups {
		item := catalog.FacetItem{ID: id, SongCount: len(songs)}
		switch d {
		case catalog.DimensionCountry:
			item.Name = repo.countries[id]
		case catalog.DimensionRegion:
			item.Name = repo.regions[id].name
			item.CountryID = pointer.To(repo.regions[id].countryID)
		case catalog.DimensionCity:
			item.Name = repo.cities[id].name
			item.CountryID = pointer.To(repo.cities[id].countryID)
			item.RegionID = pointer.To(repo.cities[id].regionID)
		case catalog.DimensionGenre:
			item.Name = repo.genres[id]
		case catalog.DimensionFund:
			item.Name = repo.funds[id]
		}
		items = append(items, item)
	}

	byName := d == catalog.DimensionCountry || d == catalog.DimensionRegion || d == catalog.DimensionCity
	sort.Slice(items, func(i, j int) bool {
		if byName && items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})

	return items, nil
}

func (repo *fakeRepository) ListSongs(ctx context.Context, filter catalog.Filter, limit, offset int) ([]catalog.SongSummary, int, error) {
	if err := repo.enter(ctx, "list"); err != nil {
		return nil, 0, err
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	matched := repo.matching(filter)
	sort.Slice(matched, func(i, j int) bool { return matched[i].id > matched[j].id })

	total := len(matched)
	if offset >= total {
		return []catalog.SongSummary{}, 0, nil
	}
	matched = matched[offset:min(offset+limit, total)]

	return slice.Map(matched, func(s song) catalog.SongSummary {
		c := repo.cities[s.cityID]
		summary := catalog.SongSummary{
			ID:      s.id,
			Title:   s.title,
			CityID:  s.cityID,
			City:    c.name,
			Region:  repo.regions[c.regionID].name,
			Country: repo.countries[c.countryID],
			FundID:  s.fundID,
			Genres: slice.Map(s.genres, func(id int) catalog.GenreRef {
				return catalog.GenreRef{ID: id, Name: repo.genres[id]}
			}),
		}
		if s.fundID != nil {
			summary.Fund = pointer.To(repo.funds[*s.fundID])
		}
		return summary
	}), total, nil
}

func (repo *fakeRepository) Geotags(ctx context.Context, filter catalog.Filter) ([]catalog.Geotag, error) {
	if err := repo.enter(ctx, "geotags"); err != nil {
		return nil, err
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	counts := map[int]int{}
	for _, s := range repo.matching(filter) {
		counts[s.cityID]++
	}

	tags := []catalog.Geotag{}
	for id, count := range counts {
		c := repo.cities[id]
		tags = append(tags, catalog.Geotag{ID: id, City: c.name + ", " + repo.regions[c.regionID].name, SongCount: count})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })

	return tags, nil
}

func (repo *fakeRepository) FindSong(ctx context.Context, id int) (*catalog.SongDetail, error) {
	if err := repo.enter(ctx, "find"); err != nil {
		return nil, err
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, s := range repo.matching(catalog.Filter{}) {
		if s.id == id {
			c := repo.cities[s.cityID]
			return &catalog.SongDetail{ID: s.id, Title: s.title, CityID: s.cityID, City: c.name}, nil
		}
	}
	return nil, apperr.NotFound("Song")
}

// # Taxonomy Repository

func (repo *fakeRepository) FindTaxon(ctx context.Context, taxon catalog.Taxon, id int) (string, error) {
	if err := repo.enter(ctx, "find_taxon"); err != nil {
		return "", err
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	names := repo.genres
	if taxon == catalog.TaxonFund {
		names = repo.funds
	}
	name, ok := names[id]
	if !ok {
		return "", apperr.NotFound("Taxon")
	}
	return name, nil
}

func (repo *fakeRepository) BlockingSongs(ctx context.Context, taxon catalog.Taxon, id, limit int) ([]string, int, error) {
	if err := repo.enter(ctx, "blocking"); err != nil {
		return nil, 0, err
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	blocking := slice.Filter(repo.songs, func(s song) bool {
		if taxon == catalog.TaxonFund {
			return s.fundID != nil && *s.fundID == id
		}
		return slices.Contains(s.genres, id) || slices.Contains(s.eduGenres, id)
	})

	titles := slice.Map(blocking, func(s song) string { return s.title })
	sort.Strings(titles)

	total := len(titles)
	return titles[:min(limit, total)], total, nil
}

func (repo *fakeRepository) DeleteTaxon(ctx context.Context, taxon catalog.Taxon, id int) error {
	if err := repo.enter(ctx, "delete_taxon"); err != nil {
		return err
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if taxon == catalog.TaxonFund {
		delete(repo.funds, id)
	} else {
		delete(repo.genres, id)
	}
	return nil
}

// # Fixture Mutations

func (repo *fakeRepository) setGenres(songID int, genres ...int) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i := range repo.songs {
		if repo.songs[i].id == songID {
			repo.songs[i].genres = genres
		}
	}
}

// moveCity reassigns a city to another region, taking its songs along.
func (repo *fakeRepository) moveCity(cityID, regionID int) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	moved := repo.cities[cityID]
	moved.regionID = regionID
	moved.countryID = repo.regions[regionID].countryID
	repo.cities[cityID] = moved
}

func (repo *fakeRepository) setErr(err error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.err = err
}
