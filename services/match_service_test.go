package services

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"reelmatch_server/models"
)

// movieByID answers /movie/{id} with the ID echoed as the title, so
// convergence tests can assert which movie was resolved.
func movieByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/movie/")
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"id": 0, "title": %q}`, id)
}

func newMatchService(t *testing.T) (*MatchService, *mockDynamo) {
	t.Helper()
	mock := newMockDynamo()
	return &MatchService{
		Dynamo: &DynamoService{Client: mock},
		TMDB:   newCatalogStub(t, movieByID),
	}, mock
}

func TestCreateMatchPending(t *testing.T) {
	matches, mock := newMatchService(t)
	ctx := context.Background()

	match, err := matches.CreateMatch(ctx, "alice", "bob", nil, models.MatchModeInfinite)
	if err != nil {
		t.Fatalf("CreateMatch failed: %v", err)
	}
	if match.Status != models.MatchStatusPending {
		t.Errorf("expected pending status, got %s", match.Status)
	}
	if match.SchemaVersion != models.MatchSchemaVersion {
		t.Errorf("expected schema version %d, got %d", models.MatchSchemaVersion, match.SchemaVersion)
	}
	if !reflect.DeepEqual(match.Users, []string{"alice", "bob"}) {
		t.Errorf("unexpected users: %v", match.Users)
	}
	if match.InitiatorSwipes == nil || match.InviteeSwipes == nil || match.InitiatorMovies == nil {
		t.Error("list fields should be initialized empty, not nil")
	}
	if mock.rawItem("Matches", match.MatchID) == nil {
		t.Error("match record was not persisted")
	}
}

func TestCreateMatchValidation(t *testing.T) {
	matches, _ := newMatchService(t)
	ctx := context.Background()

	if _, err := matches.CreateMatch(ctx, "", "bob", nil, models.MatchModeInfinite); err == nil {
		t.Error("expected error for missing initiator")
	}
	if _, err := matches.CreateMatch(ctx, "alice", "bob", nil, "speed"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestPendingInviteFor(t *testing.T) {
	matches, _ := newMatchService(t)
	ctx := context.Background()

	created, err := matches.CreateMatch(ctx, "alice", "bob", nil, models.MatchModeInfinite)
	if err != nil {
		t.Fatalf("CreateMatch failed: %v", err)
	}

	invite, err := matches.PendingInviteFor(ctx, "bob")
	if err != nil {
		t.Fatalf("PendingInviteFor failed: %v", err)
	}
	if invite == nil || invite.MatchID != created.MatchID {
		t.Fatalf("expected pending invite %s for bob, got %+v", created.MatchID, invite)
	}

	// The initiator is waiting, not invited.
	invite, err = matches.PendingInviteFor(ctx, "alice")
	if err != nil {
		t.Fatalf("PendingInviteFor failed: %v", err)
	}
	if invite != nil {
		t.Errorf("alice should have no pending invite, got %+v", invite)
	}
}

func TestAcceptMatch(t *testing.T) {
	matches, _ := newMatchService(t)
	ctx := context.Background()

	created, err := matches.CreateMatch(ctx, "alice", "bob", []string{"1", "2"}, models.MatchModeQuestionnaire)
	if err != nil {
		t.Fatalf("CreateMatch failed: %v", err)
	}

	accepted, err := matches.AcceptMatch(ctx, created.MatchID, []string{"3", "4"})
	if err != nil {
		t.Fatalf("AcceptMatch failed: %v", err)
	}
	if accepted.Status != models.MatchStatusActive {
		t.Errorf("expected active status, got %s", accepted.Status)
	}
	if !reflect.DeepEqual(accepted.InviteeMovies, []string{"3", "4"}) {
		t.Errorf("unexpected invitee movies: %v", accepted.InviteeMovies)
	}
	if !reflect.DeepEqual(accepted.InitiatorMovies, []string{"1", "2"}) {
		t.Errorf("initiator movies should be untouched: %v", accepted.InitiatorMovies)
	}
}

func TestEnsureSessionPreservesSwipes(t *testing.T) {
	matches, _ := newMatchService(t)
	ctx := context.Background()

	created, _ := matches.CreateMatch(ctx, "alice", "bob", nil, models.MatchModeInfinite)
	if err := matches.SubmitSwipe(ctx, created.MatchID, "alice", "101", models.SwipeRight); err != nil {
		t.Fatalf("SubmitSwipe failed: %v", err)
	}

	if err := matches.EnsureSession(ctx, created.MatchID); err != nil {
		t.Fatalf("EnsureSession failed: %v", err)
	}

	initiator, _, err := matches.Swipes(ctx, created.MatchID)
	if err != nil {
		t.Fatalf("Swipes failed: %v", err)
	}
	if !reflect.DeepEqual(initiator, []string{"101"}) {
		t.Errorf("EnsureSession overwrote existing swipes: %v", initiator)
	}
}

func TestSubmitSwipe(t *testing.T) {
	matches, _ := newMatchService(t)
	ctx := context.Background()

	created, _ := matches.CreateMatch(ctx, "alice", "bob", nil, models.MatchModeInfinite)

	// Left swipes are never persisted.
	if err := matches.SubmitSwipe(ctx, created.MatchID, "alice", "101", models.SwipeLeft); err != nil {
		t.Fatalf("SubmitSwipe failed: %v", err)
	}
	// Duplicate right swipes collapse to one entry.
	for i := 0; i < 3; i++ {
		if err := matches.SubmitSwipe(ctx, created.MatchID, "alice", "102", models.SwipeRight); err != nil {
			t.Fatalf("SubmitSwipe failed: %v", err)
		}
	}
	// Outsiders are ignored.
	if err := matches.SubmitSwipe(ctx, created.MatchID, "mallory", "103", models.SwipeRight); err != nil {
		t.Fatalf("SubmitSwipe failed: %v", err)
	}

	initiator, invitee, err := matches.Swipes(ctx, created.MatchID)
	if err != nil {
		t.Fatalf("Swipes failed: %v", err)
	}
	if !reflect.DeepEqual(initiator, []string{"102"}) {
		t.Errorf("expected initiator swipes [102], got %v", initiator)
	}
	if len(invitee) != 0 {
		t.Errorf("expected no invitee swipes, got %v", invitee)
	}
}

func TestCheckForMatchNoOverlap(t *testing.T) {
	matches, _ := newMatchService(t)
	ctx := context.Background()

	created, _ := matches.CreateMatch(ctx, "alice", "bob", nil, models.MatchModeInfinite)
	matches.SubmitSwipe(ctx, created.MatchID, "alice", "101", models.SwipeRight)
	matches.SubmitSwipe(ctx, created.MatchID, "bob", "202", models.SwipeRight)

	movie, err := matches.CheckForMatch(ctx, created.MatchID)
	if err != nil {
		t.Fatalf("CheckForMatch failed: %v", err)
	}
	if movie != nil {
		t.Errorf("expected no convergence, got %+v", movie)
	}

	current, _ := matches.GetMatch(ctx, created.MatchID)
	if current.Status == models.MatchStatusFinished {
		t.Error("match should not finish without overlap")
	}
}

func TestCheckForMatchTieBreak(t *testing.T) {
	matches, _ := newMatchService(t)
	ctx := context.Background()

	created, _ := matches.CreateMatch(ctx, "alice", "bob", nil, models.MatchModeInfinite)
	for _, id := range []string{"A", "B", "C"} {
		matches.SubmitSwipe(ctx, created.MatchID, "alice", id, models.SwipeRight)
	}
	for _, id := range []string{"X", "B", "A"} {
		matches.SubmitSwipe(ctx, created.MatchID, "bob", id, models.SwipeRight)
	}

	// Both accepted A and B; the initiator's earlier pick wins.
	movie, err := matches.CheckForMatch(ctx, created.MatchID)
	if err != nil {
		t.Fatalf("CheckForMatch failed: %v", err)
	}
	if movie == nil || movie.Title != "A" {
		t.Fatalf("expected result A, got %+v", movie)
	}

	finished, _ := matches.GetMatch(ctx, created.MatchID)
	if finished.Status != models.MatchStatusFinished {
		t.Errorf("expected finished status, got %s", finished.Status)
	}
	if finished.ResultMovieID != "A" {
		t.Errorf("expected stored result A, got %s", finished.ResultMovieID)
	}
}

func TestCheckForMatchFinishedReturnsStoredResult(t *testing.T) {
	matches, _ := newMatchService(t)
	ctx := context.Background()

	created, _ := matches.CreateMatch(ctx, "alice", "bob", nil, models.MatchModeInfinite)
	if err := matches.FinishMatch(ctx, created.MatchID, "B"); err != nil {
		t.Fatalf("FinishMatch failed: %v", err)
	}

	// Later swipes cannot change a terminal result.
	matches.SubmitSwipe(ctx, created.MatchID, "alice", "A", models.SwipeRight)
	matches.SubmitSwipe(ctx, created.MatchID, "bob", "A", models.SwipeRight)

	movie, err := matches.CheckForMatch(ctx, created.MatchID)
	if err != nil {
		t.Fatalf("CheckForMatch failed: %v", err)
	}
	if movie == nil || movie.Title != "B" {
		t.Errorf("expected stored result B, got %+v", movie)
	}
}

func TestSubmitAnswer(t *testing.T) {
	matches, _ := newMatchService(t)
	ctx := context.Background()

	created, _ := matches.CreateMatch(ctx, "alice", "bob", []string{"1"}, models.MatchModeQuestionnaire)

	if _, err := matches.SubmitAnswer(ctx, created.MatchID, "alice", "meh"); err == nil {
		t.Error("expected error for unknown answer")
	}
	if _, err := matches.SubmitAnswer(ctx, created.MatchID, "mallory", models.AnswerLike); err == nil {
		t.Error("expected error for non-participant")
	}

	updated, err := matches.SubmitAnswer(ctx, created.MatchID, "alice", models.AnswerLove)
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if !reflect.DeepEqual(updated.InitiatorAnswers, []string{models.AnswerLove}) {
		t.Errorf("unexpected answers: %v", updated.InitiatorAnswers)
	}
	if updated.CurrentIndex != 1 {
		t.Errorf("expected currentIndex 1, got %d", updated.CurrentIndex)
	}
}

func TestSubmitAnswerCapsAtDeckSize(t *testing.T) {
	matches, _ := newMatchService(t)
	ctx := context.Background()

	created, _ := matches.CreateMatch(ctx, "alice", "bob", []string{"1", "2", "3"}, models.MatchModeQuestionnaire)
	for i := 0; i < 3; i++ {
		if _, err := matches.SubmitAnswer(ctx, created.MatchID, "alice", models.AnswerUnseen); err != nil {
			t.Fatalf("SubmitAnswer %d failed: %v", i, err)
		}
	}

	overflow, err := matches.SubmitAnswer(ctx, created.MatchID, "alice", models.AnswerLove)
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if len(overflow.InitiatorAnswers) != 3 {
		t.Errorf("answers grew past deck size: %d", len(overflow.InitiatorAnswers))
	}
}

func TestAnswersComplete(t *testing.T) {
	matches, _ := newMatchService(t)

	match := &models.Match{
		InitiatorMovies: []string{"1", "2"},
		InviteeMovies:   []string{"3", "4"},
	}
	if matches.AnswersComplete(match) {
		t.Error("empty answers should not be complete")
	}
	match.InitiatorAnswers = []string{models.AnswerLike, models.AnswerLove}
	if matches.AnswersComplete(match) {
		t.Error("one side answered should not be complete")
	}
	match.InviteeAnswers = []string{models.AnswerDislike, models.AnswerUnseen}
	if !matches.AnswersComplete(match) {
		t.Error("full answer lists should be complete")
	}
}
