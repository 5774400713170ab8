package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"reelmatch_server/models"
)

// SessionState is one client's position in the matchmaking flow.
type SessionState string

const (
	StateIdle     SessionState = "idle"
	StateInviting SessionState = "inviting"
	StateWaiting  SessionState = "waiting"
	StateAccept   SessionState = "accept"
	StateMatching SessionState = "matching"
	StateResult   SessionState = "result"
)

// SessionSnapshot is what the rendering layer sees.
type SessionSnapshot struct {
	State       SessionState  `json:"state"`
	Username    string        `json:"username"`
	MatchID     string        `json:"matchId,omitempty"`
	Match       *models.Match `json:"match,omitempty"`
	ResultMovie *models.Movie `json:"resultMovie,omitempty"`
}

// SessionRunnerConfig controls the runner's polling cadence and deck
// sizing.
type SessionRunnerConfig struct {
	LifecycleInterval   time.Duration // invite discovery and status polling
	ConvergenceInterval time.Duration // accept-list intersection polling
	DeckBufferSize      int
	QuestionnaireSize   int
}

// SessionRunner drives one client's matchmaking lifecycle:
//
//	idle -> waiting  (Invite)
//	idle -> accept   (poll finds a pending match naming this user invitee)
//	waiting -> matching (poll observes status active)
//	accept -> matching  (Accept)
//	matching -> result  (convergence, observed finished status, or
//	                     questionnaire completion + smart match)
//	result -> idle      (Reset; the match record is left untouched)
//
// Both participants run a symmetric copy of this loop against the same
// shared record; every transition must be tolerated whether or not this
// runner caused it. There is no peer timeout: a stalled peer leaves the
// runner polling until its owning context is cancelled.
type SessionRunner struct {
	matches *MatchService
	decks   *DeckService
	smart   *SmartMatchService
	cfg     SessionRunnerConfig

	username string
	notify   func(SessionSnapshot)

	mu          sync.Mutex
	state       SessionState
	matchID     string
	match       *models.Match
	resultMovie *models.Movie
	cursor      int // deck entries consumed; local only, never shared
	epoch       int // bumped on Reset so stale poll results are dropped
}

// NewSessionRunner builds a runner for one client. notify, when set,
// receives a snapshot after every state change.
func NewSessionRunner(username string, matches *MatchService, decks *DeckService, smart *SmartMatchService, cfg SessionRunnerConfig, notify func(SessionSnapshot)) *SessionRunner {
	if cfg.LifecycleInterval <= 0 {
		cfg.LifecycleInterval = 2000 * time.Millisecond
	}
	if cfg.ConvergenceInterval <= 0 {
		cfg.ConvergenceInterval = 1500 * time.Millisecond
	}
	if cfg.DeckBufferSize <= 0 {
		cfg.DeckBufferSize = 5
	}
	if cfg.QuestionnaireSize <= 0 {
		cfg.QuestionnaireSize = models.QuestionnaireDeckSize
	}
	return &SessionRunner{
		matches:  matches,
		decks:    decks,
		smart:    smart,
		cfg:      cfg,
		username: username,
		notify:   notify,
		state:    StateIdle,
	}
}

// Run polls until ctx is cancelled. In-flight requests are not
// cancelled mid-tick; their results are discarded by the epoch check.
func (r *SessionRunner) Run(ctx context.Context) {
	lifecycle := time.NewTicker(r.cfg.LifecycleInterval)
	defer lifecycle.Stop()
	convergence := time.NewTicker(r.cfg.ConvergenceInterval)
	defer convergence.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-lifecycle.C:
			r.lifecycleTick(ctx)
		case <-convergence.C:
			r.convergenceTick(ctx)
		}
	}
}

// Invite creates a pending match naming invitee and moves to waiting.
func (r *SessionRunner) Invite(ctx context.Context, invitee, mode string) error {
	if invitee == "" {
		return fmt.Errorf("invitee is required")
	}
	if invitee == r.username {
		return fmt.Errorf("cannot invite yourself")
	}
	if mode == "" {
		mode = models.MatchModeInfinite
	}

	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return fmt.Errorf("cannot invite while %s", r.state)
	}
	r.state = StateInviting
	epoch := r.epoch
	r.mu.Unlock()

	var initiatorMovies []string
	if mode == models.MatchModeQuestionnaire {
		ids, err := r.decks.RandomPopularMovieIDs(ctx, r.cfg.QuestionnaireSize)
		if err != nil {
			r.apply(epoch, func() { r.state = StateIdle })
			return err
		}
		initiatorMovies = ids
	}

	match, err := r.matches.CreateMatch(ctx, r.username, invitee, initiatorMovies, mode)
	if err != nil {
		r.apply(epoch, func() { r.state = StateIdle })
		return err
	}
	if err := r.matches.EnsureSession(ctx, match.MatchID); err != nil {
		r.apply(epoch, func() { r.state = StateIdle })
		return err
	}

	r.apply(epoch, func() {
		r.matchID = match.MatchID
		r.match = match
		r.state = StateWaiting
	})
	return nil
}

// Accept is the invitee's explicit acceptance: it flips the match
// active, supplies the invitee's own deck, and moves to matching.
func (r *SessionRunner) Accept(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateAccept || r.match == nil {
		r.mu.Unlock()
		return fmt.Errorf("no pending invite to accept")
	}
	matchID := r.matchID
	mode := r.match.Mode
	epoch := r.epoch
	r.mu.Unlock()

	var inviteeMovies []string
	if mode == models.MatchModeQuestionnaire {
		ids, err := r.decks.RandomPopularMovieIDs(ctx, r.cfg.QuestionnaireSize)
		if err != nil {
			return err
		}
		inviteeMovies = ids
	}

	match, err := r.matches.AcceptMatch(ctx, matchID, inviteeMovies)
	if err != nil {
		return err
	}
	if err := r.matches.EnsureSession(ctx, matchID); err != nil {
		return err
	}

	r.apply(epoch, func() {
		r.match = match
		r.state = StateMatching
	})
	return nil
}

// Deck returns the next buffer of candidates from this client's cursor.
func (r *SessionRunner) Deck(ctx context.Context) ([]models.Movie, error) {
	r.mu.Lock()
	matchID := r.matchID
	cursor := r.cursor
	r.mu.Unlock()

	if matchID == "" {
		return nil, fmt.Errorf("no active session")
	}
	return r.decks.MoviesForSession(ctx, matchID, cursor, r.cfg.DeckBufferSize)
}

// Swipe records a decision on the movie at the cursor and advances it.
func (r *SessionRunner) Swipe(ctx context.Context, movieID, direction string) error {
	r.mu.Lock()
	if r.state != StateMatching || r.matchID == "" {
		r.mu.Unlock()
		return fmt.Errorf("not in a matching session")
	}
	matchID := r.matchID
	r.mu.Unlock()

	if err := r.matches.SubmitSwipe(ctx, matchID, r.username, movieID, direction); err != nil {
		return err
	}

	r.mu.Lock()
	r.cursor++
	r.mu.Unlock()
	return nil
}

// Answer records a questionnaire answer for the next deck position.
func (r *SessionRunner) Answer(ctx context.Context, answer string) error {
	r.mu.Lock()
	if r.state != StateMatching || r.matchID == "" {
		r.mu.Unlock()
		return fmt.Errorf("not in a matching session")
	}
	matchID := r.matchID
	epoch := r.epoch
	r.mu.Unlock()

	match, err := r.matches.SubmitAnswer(ctx, matchID, r.username, answer)
	if err != nil {
		return err
	}
	r.apply(epoch, func() { r.match = match })
	return nil
}

// Reset returns to idle for another match. The finished record stays in
// the store. Any in-flight poll from before the reset is discarded.
func (r *SessionRunner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.epoch++
	r.state = StateIdle
	r.matchID = ""
	r.match = nil
	r.resultMovie = nil
	r.cursor = 0
	r.emitLocked()
}

// Snapshot returns the current state for the rendering layer.
func (r *SessionRunner) Snapshot() SessionSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *SessionRunner) snapshotLocked() SessionSnapshot {
	return SessionSnapshot{
		State:       r.state,
		Username:    r.username,
		MatchID:     r.matchID,
		Match:       r.match,
		ResultMovie: r.resultMovie,
	}
}

// apply runs fn under the lock unless the runner was reset since the
// caller read epoch, then notifies the rendering layer.
func (r *SessionRunner) apply(epoch int, fn func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if epoch != r.epoch {
		return false
	}
	fn()
	r.emitLocked()
	return true
}

func (r *SessionRunner) emitLocked() {
	if r.notify != nil {
		r.notify(r.snapshotLocked())
	}
}

// lifecycleTick discovers invites while idle and follows status changes
// made by the peer otherwise. Errors are dropped; the next tick retries.
func (r *SessionRunner) lifecycleTick(ctx context.Context) {
	r.mu.Lock()
	state := r.state
	matchID := r.matchID
	epoch := r.epoch
	r.mu.Unlock()

	switch state {
	case StateIdle:
		match, err := r.matches.PendingInviteFor(ctx, r.username)
		if err != nil || match == nil {
			return
		}
		r.apply(epoch, func() {
			r.matchID = match.MatchID
			r.match = match
			r.state = StateAccept
		})

	case StateWaiting, StateMatching:
		if matchID == "" {
			return
		}
		match, err := r.matches.GetMatch(ctx, matchID)
		if err != nil {
			return
		}

		if match.Status == models.MatchStatusFinished && match.ResultMovieID != "" {
			// The peer finished the session; fetch the shared result.
			movie, err := r.matches.TMDB.GetMovie(ctx, match.ResultMovieID)
			if err != nil {
				return
			}
			r.apply(epoch, func() {
				r.match = match
				r.resultMovie = movie
				r.state = StateResult
			})
			return
		}

		r.apply(epoch, func() {
			r.match = match
			if match.Status == models.MatchStatusActive && r.state == StateWaiting {
				r.state = StateMatching
			}
		})
	}
}

// convergenceTick looks for a shared result while matching: the accept
// list intersection in infinite mode, or questionnaire completion plus
// the fallback matcher.
func (r *SessionRunner) convergenceTick(ctx context.Context) {
	r.mu.Lock()
	state := r.state
	matchID := r.matchID
	match := r.match
	epoch := r.epoch
	r.mu.Unlock()

	if state != StateMatching || matchID == "" {
		return
	}

	if match != nil && match.Mode == models.MatchModeQuestionnaire {
		current, err := r.matches.GetMatch(ctx, matchID)
		if err != nil || !r.matches.AnswersComplete(current) {
			return
		}
		resultID, err := r.smart.Resolve(ctx, current)
		if err != nil || resultID == "" {
			return
		}
		if err := r.matches.FinishMatch(ctx, matchID, resultID); err != nil {
			return
		}
		movie, err := r.matches.TMDB.GetMovie(ctx, resultID)
		if err != nil {
			return
		}
		r.apply(epoch, func() {
			r.resultMovie = movie
			r.state = StateResult
		})
		return
	}

	movie, err := r.matches.CheckForMatch(ctx, matchID)
	if err != nil || movie == nil {
		return
	}
	r.apply(epoch, func() {
		r.resultMovie = movie
		r.state = StateResult
	})
}
