package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/songatlas/internal/platform/middleware"
	requestutil "github.com/taibuivan/songatlas/internal/platform/request"
	"github.com/taibuivan/songatlas/internal/platform/respond"
	"github.com/taibuivan/songatlas/internal/platform/sec"
	"github.com/taibuivan/songatlas/pkg/pagination"
)

// Handler exposes the discovery reads and the admin intake over HTTP.
type Handler struct {
	service     *Service
	guard       *Guard
	invalidator *Invalidator
}

func NewHandler(service *Service, guard *Guard, invalidator *Invalidator) *Handler {
	return &Handler{service: service, guard: guard, invalidator: invalidator}
}

// Routes returns the public read router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/filter/location/countries", handler.facet(DimensionCountry))
	router.Get("/filter/location/regions", handler.facet(DimensionRegion))
	router.Get("/filter/location/cities", handler.facet(DimensionCity))
	router.Get("/filter/song/genres", handler.facet(DimensionGenre))
	router.Get("/filter/song/funds", handler.facet(DimensionFund))

	router.Get("/map/filter/songs", handler.listSongs)
	router.Get("/map/filter/songs/{id}", handler.getSong)
	router.Get("/map/filter/geotag", handler.geotags)

	return router
}

// AdminRoutes returns the router for authenticated admin calls. The caller
// mounts it behind token authentication.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.With(middleware.RequireRole(sec.RoleEditor)).Post("/mutations", handler.applyMutation)

	// Admin strict only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Delete("/genres/{id}", handler.deleteTaxon(TaxonGenre))
		adminRoute.Delete("/funds/{id}", handler.deleteTaxon(TaxonFund))
	})

	return router
}

// # Public Reads

func (handler *Handler) facet(d Dimension) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		filter, err := parseFilter(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		items, err := handler.service.Facet(request.Context(), d, filter)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, items)
	}
}

func (handler *Handler) listSongs(writer http.ResponseWriter, request *http.Request) {
	filter, err := parseFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.ListSongs(request.Context(), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, page)
}

func (handler *Handler) geotags(writer http.ResponseWriter, request *http.Request) {
	filter, err := parseFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tags, err := handler.service.Geotags(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tags)
}

func (handler *Handler) getSong(writer http.ResponseWriter, request *http.Request) {
	songID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	song, err := handler.service.GetSong(request.Context(), songID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, song)
}

// # Admin

func (handler *Handler) applyMutation(writer http.ResponseWriter, request *http.Request) {
	var event MutationEvent
	if err := requestutil.DecodeJSON(writer, request, &event); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.invalidator.Apply(request.Context(), event); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Accepted(writer, map[string]any{
		"entity":      event.Entity,
		"operation":   event.Operation,
		"invalidated": AffectedFunctions(event.Entity, event.Operation),
	})
}

func (handler *Handler) deleteTaxon(taxon Taxon) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		taxonID, err := requestutil.IntParam(request, "id")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		if err := handler.guard.Delete(request.Context(), taxon, taxonID); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.NoContent(writer)
	}
}

// parseFilter reads the five identifier lists and the search term. A value
// that is not an integer is a validation error, never an empty match.
func parseFilter(request *http.Request) (Filter, error) {
	var (
		filter Filter
		err    error
	)

	targets := map[Dimension]*[]int{
		DimensionCountry: &filter.CountryIDs,
		DimensionRegion:  &filter.RegionIDs,
		DimensionCity:    &filter.CityIDs,
		DimensionGenre:   &filter.GenreIDs,
		DimensionFund:    &filter.FundIDs,
	}
	for _, d := range Dimensions {
		if *targets[d], err = requestutil.IntList(request, d.Param()); err != nil {
			return Filter{}, err
		}
	}

	filter.Search = request.URL.Query().Get("search")
	return filter, nil
}
