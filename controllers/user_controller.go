package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"reelmatch_server/services"
	"reelmatch_server/utils"
)

// UserController handles username registration
type UserController struct {
	Users *services.UserService
}

// NewUserController creates a new UserController instance
func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=2,max=32"`
}

// Register handles claiming a username
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := uc.Users.Save(r.Context(), req.Username)
	if errors.Is(err, services.ErrUsernameTaken) {
		http.Error(w, "username already taken", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"username": req.Username,
	})
}

// Exists handles checking whether a username is taken
func (uc *UserController) Exists(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	exists, err := uc.Users.Exists(r.Context(), username)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"username": username,
		"exists":   exists,
	})
}
