package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"reelmatch_server/services"
	"reelmatch_server/utils"
)

// WatchlistController handles HTTP requests for shared watchlists
type WatchlistController struct {
	Watchlists *services.WatchlistService
}

// NewWatchlistController creates a new WatchlistController instance
func NewWatchlistController(watchlists *services.WatchlistService) *WatchlistController {
	return &WatchlistController{Watchlists: watchlists}
}

// GetWatchlists handles fetching all watchlists for a member
func (wc *WatchlistController) GetWatchlists(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}

	watchlists, err := wc.Watchlists.ForMember(r.Context(), username)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"watchlists": watchlists,
	})
}

type createWatchlistRequest struct {
	Name    string `json:"name" validate:"required"`
	Creator string `json:"creator" validate:"required"`
}

// Create handles creating a new shared watchlist
func (wc *WatchlistController) Create(w http.ResponseWriter, r *http.Request) {
	var req createWatchlistRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	watchlist, err := wc.Watchlists.Create(r.Context(), req.Name, req.Creator)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to create watchlist: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(watchlist)
}

type addMemberRequest struct {
	Username string `json:"username" validate:"required"`
}

// AddMember handles adding a member to a watchlist
func (wc *WatchlistController) AddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	watchlist, err := wc.Watchlists.AddMember(r.Context(), mux.Vars(r)["id"], req.Username)
	if errors.Is(err, services.ErrItemNotFound) {
		http.Error(w, "watchlist not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(watchlist)
}

type addMovieRequest struct {
	MovieID string `json:"movieId" validate:"required"`
}

// AddMovie handles adding a movie to a watchlist
func (wc *WatchlistController) AddMovie(w http.ResponseWriter, r *http.Request) {
	var req addMovieRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	watchlist, err := wc.Watchlists.AddMovie(r.Context(), mux.Vars(r)["id"], req.MovieID)
	if errors.Is(err, services.ErrItemNotFound) {
		http.Error(w, "watchlist not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(watchlist)
}
