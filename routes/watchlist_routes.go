package routes

import (
	"reelmatch_server/controllers"
	"reelmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterWatchlistRoutes sets up routes for shared watchlists under /api/watchlists
func RegisterWatchlistRoutes(r *mux.Router, watchlists *services.WatchlistService) {
	controller := controllers.NewWatchlistController(watchlists)

	watchlistRouter := r.PathPrefix("/api/watchlists").Subrouter()

	watchlistRouter.HandleFunc("", controller.GetWatchlists).Methods("GET")
	watchlistRouter.HandleFunc("", controller.Create).Methods("POST")
	watchlistRouter.HandleFunc("/{id}/members", controller.AddMember).Methods("POST")
	watchlistRouter.HandleFunc("/{id}/movies", controller.AddMovie).Methods("POST")
}
