package routes

import (
	"reelmatch_server/controllers"
	"reelmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterMovieRoutes sets up catalog routes under /api/movies
func RegisterMovieRoutes(r *mux.Router, tmdb *services.TMDBService) {
	controller := controllers.NewMovieController(tmdb)

	movieRouter := r.PathPrefix("/api/movies").Subrouter()

	// Literal paths before the {id} wildcard.
	movieRouter.HandleFunc("/popular", controller.Popular).Methods("GET")
	movieRouter.HandleFunc("/providers", controller.Providers).Methods("GET")
	movieRouter.HandleFunc("", controller.Browse).Methods("GET")
	movieRouter.HandleFunc("/{id:[0-9]+}", controller.Detail).Methods("GET")
	movieRouter.HandleFunc("/{id:[0-9]+}/providers", controller.MovieProviders).Methods("GET")
	movieRouter.HandleFunc("/{id:[0-9]+}/recommendations", controller.Recommendations).Methods("GET")
	movieRouter.HandleFunc("/{id:[0-9]+}/trailer", controller.Trailer).Methods("GET")
}
