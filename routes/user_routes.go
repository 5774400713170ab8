package routes

import (
	"reelmatch_server/controllers"
	"reelmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserRoutes sets up username routes under /api/users
func RegisterUserRoutes(r *mux.Router, users *services.UserService) {
	controller := controllers.NewUserController(users)

	userRouter := r.PathPrefix("/api/users").Subrouter()

	userRouter.HandleFunc("", controller.Register).Methods("POST")
	userRouter.HandleFunc("/{username}", controller.Exists).Methods("GET")
}
