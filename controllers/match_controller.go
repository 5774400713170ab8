package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"reelmatch_server/models"
	"reelmatch_server/services"
	"reelmatch_server/utils"
)

// MatchController handles HTTP requests for the matchmaking flow
type MatchController struct {
	Matches *services.MatchService
	Decks   *services.DeckService
	Smart   *services.SmartMatchService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matches *services.MatchService, decks *services.DeckService, smart *services.SmartMatchService) *MatchController {
	return &MatchController{Matches: matches, Decks: decks, Smart: smart}
}

type inviteRequest struct {
	Initiator string `json:"initiator" validate:"required"`
	Invitee   string `json:"invitee" validate:"required"`
	Mode      string `json:"mode" validate:"omitempty,oneof=infinite questionnaire"`
}

// Invite creates a pending match naming an invitee
func (mc *MatchController) Invite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Initiator == req.Invitee {
		http.Error(w, "cannot invite yourself", http.StatusBadRequest)
		return
	}
	if req.Mode == "" {
		req.Mode = models.MatchModeInfinite
	}

	var initiatorMovies []string
	if req.Mode == models.MatchModeQuestionnaire {
		ids, err := mc.Decks.RandomPopularMovieIDs(r.Context(), models.QuestionnaireDeckSize)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to build deck: %v", err), http.StatusInternalServerError)
			return
		}
		initiatorMovies = ids
	}

	match, err := mc.Matches.CreateMatch(r.Context(), req.Initiator, req.Invitee, initiatorMovies, req.Mode)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to create match: %v", err), http.StatusInternalServerError)
		return
	}
	if err := mc.Matches.EnsureSession(r.Context(), match.MatchID); err != nil {
		http.Error(w, fmt.Sprintf("Failed to initialize session: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(match)
}

// GetMatches handles fetching all matches for a user
func (mc *MatchController) GetMatches(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}

	matches, err := mc.Matches.MatchesForUser(r.Context(), username)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"matches": matches,
	})
}

// GetMatch handles fetching a single match by ID
func (mc *MatchController) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	match, err := mc.Matches.GetMatch(r.Context(), matchID)
	if errors.Is(err, services.ErrItemNotFound) {
		http.Error(w, "match not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(match)
}

type acceptRequest struct {
	Username string `json:"username" validate:"required"`
}

// Accept flips a pending match to active; only the invitee may call it
func (mc *MatchController) Accept(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	var req acceptRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	match, err := mc.Matches.GetMatch(r.Context(), matchID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if match.Invitee != req.Username {
		http.Error(w, "only the invitee can accept", http.StatusForbidden)
		return
	}

	var inviteeMovies []string
	if match.Mode == models.MatchModeQuestionnaire {
		ids, err := mc.Decks.RandomPopularMovieIDs(r.Context(), models.QuestionnaireDeckSize)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to build deck: %v", err), http.StatusInternalServerError)
			return
		}
		inviteeMovies = ids
	}

	updated, err := mc.Matches.AcceptMatch(r.Context(), matchID, inviteeMovies)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to accept match: %v", err), http.StatusInternalServerError)
		return
	}
	if err := mc.Matches.EnsureSession(r.Context(), matchID); err != nil {
		http.Error(w, fmt.Sprintf("Failed to initialize session: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(updated)
}

// Deck handles fetching a slice of the session's candidate deck. The
// same match ID, offset and count always yield the same slice, so both
// participants can page independently. Previously rejected movies may
// reappear at later offsets; rejects are not recorded anywhere.
func (mc *MatchController) Deck(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil || count <= 0 {
		count = 5
	}

	movies, err := mc.Decks.MoviesForSession(r.Context(), matchID, offset, count)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"movies": movies,
	})
}

type swipeRequest struct {
	Username  string `json:"username" validate:"required"`
	MovieID   string `json:"movieId" validate:"required"`
	Direction string `json:"direction" validate:"required,oneof=left right"`
}

// Swipe records a swipe decision for one participant
func (mc *MatchController) Swipe(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	var req swipeRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := mc.Matches.SubmitSwipe(r.Context(), matchID, req.Username, req.MovieID, req.Direction); err != nil {
		http.Error(w, fmt.Sprintf("Failed to submit swipe: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Swipe recorded",
	})
}

type answerRequest struct {
	Username string `json:"username" validate:"required"`
	Answer   string `json:"answer" validate:"required,oneof=love like dislike unseen"`
}

// Answer records a questionnaire answer for one participant
func (mc *MatchController) Answer(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	var req answerRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	match, err := mc.Matches.SubmitAnswer(r.Context(), matchID, req.Username, req.Answer)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to submit answer: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(match)
}

// Check polls for convergence: a movie both participants accepted.
// Responds with the movie on a hit, or a null movie when there is no
// match yet.
func (mc *MatchController) Check(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	movie, err := mc.Matches.CheckForMatch(r.Context(), matchID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"movie": movie,
	})
}

// SmartMatch resolves a completed questionnaire session via the
// genre-profile fallback matcher and finishes the match
func (mc *MatchController) SmartMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	match, err := mc.Matches.GetMatch(r.Context(), matchID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !mc.Matches.AnswersComplete(match) {
		http.Error(w, "both participants must finish answering first", http.StatusConflict)
		return
	}

	resultID, err := mc.Smart.Resolve(r.Context(), match)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to resolve smart match: %v", err), http.StatusInternalServerError)
		return
	}
	if resultID == "" {
		http.Error(w, "no candidate movie available", http.StatusNotFound)
		return
	}

	if err := mc.Matches.FinishMatch(r.Context(), matchID, resultID); err != nil {
		http.Error(w, fmt.Sprintf("Failed to finish match: %v", err), http.StatusInternalServerError)
		return
	}

	movie, err := mc.Matches.TMDB.GetMovie(r.Context(), resultID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"movie": movie,
	})
}
