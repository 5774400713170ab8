package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"reelmatch_server/services"
)

// MovieController proxies the movie catalog for the mobile app
type MovieController struct {
	TMDB *services.TMDBService
}

// NewMovieController creates a new MovieController instance
func NewMovieController(tmdb *services.TMDBService) *MovieController {
	return &MovieController{TMDB: tmdb}
}

func regionOrDefault(r *http.Request) string {
	if region := r.URL.Query().Get("region"); region != "" {
		return region
	}
	return "CA"
}

// Browse handles search, now-playing, and default popular listings
func (mc *MovieController) Browse(w http.ResponseWriter, r *http.Request) {
	var err error
	var movies interface{}

	switch {
	case r.URL.Query().Get("nowPlaying") == "true":
		movies, err = mc.TMDB.NowPlaying(r.Context(), regionOrDefault(r))
	case r.URL.Query().Get("query") != "":
		movies, err = mc.TMDB.SearchMovies(r.Context(), r.URL.Query().Get("query"))
	default:
		movies, err = mc.TMDB.DiscoverPopular(r.Context())
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"movies": movies,
	})
}

// Popular handles fetching one page of the popular listing
func (mc *MovieController) Popular(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	movies, err := mc.TMDB.PopularPage(r.Context(), page)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"movies": movies,
	})
}

// Providers lists all streaming platforms for a region
func (mc *MovieController) Providers(w http.ResponseWriter, r *http.Request) {
	providers, err := mc.TMDB.AllProviders(r.Context(), regionOrDefault(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"providers": providers,
	})
}

// Detail handles fetching full details for one movie
func (mc *MovieController) Detail(w http.ResponseWriter, r *http.Request) {
	movie, err := mc.TMDB.GetMovie(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(movie)
}

// MovieProviders returns where one movie can be streamed in a region
func (mc *MovieController) MovieProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := mc.TMDB.WatchProviders(r.Context(), mux.Vars(r)["id"], regionOrDefault(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"providers": providers,
	})
}

// Recommendations returns movies recommended alongside the given one
func (mc *MovieController) Recommendations(w http.ResponseWriter, r *http.Request) {
	movies, err := mc.TMDB.Recommendations(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"movies": movies,
	})
}

// Trailer returns the first YouTube trailer for a movie, if any
func (mc *MovieController) Trailer(w http.ResponseWriter, r *http.Request) {
	video, err := mc.TMDB.Trailer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"trailer": video,
	})
}
