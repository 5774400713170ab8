package routes

import (
	"reelmatch_server/controllers"
	"reelmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for matchmaking under /api/match
func RegisterMatchRoutes(r *mux.Router, matches *services.MatchService, decks *services.DeckService, smart *services.SmartMatchService) {
	controller := controllers.NewMatchController(matches, decks, smart)

	matchRouter := r.PathPrefix("/api/match").Subrouter()

	matchRouter.HandleFunc("/invite", controller.Invite).Methods("POST")
	matchRouter.HandleFunc("", controller.GetMatches).Methods("GET")
	matchRouter.HandleFunc("/{id}", controller.GetMatch).Methods("GET")
	matchRouter.HandleFunc("/{id}/accept", controller.Accept).Methods("POST")
	matchRouter.HandleFunc("/{id}/deck", controller.Deck).Methods("GET")
	matchRouter.HandleFunc("/{id}/swipe", controller.Swipe).Methods("POST")
	matchRouter.HandleFunc("/{id}/answer", controller.Answer).Methods("POST")
	matchRouter.HandleFunc("/{id}/check", controller.Check).Methods("GET")
	matchRouter.HandleFunc("/{id}/smartmatch", controller.SmartMatch).Methods("POST")
}
