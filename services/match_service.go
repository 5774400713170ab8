package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"reelmatch_server/models"
	"reelmatch_server/utils"
)

// MatchService owns the Match record lifecycle: creation, acceptance,
// swipe and answer submission, and convergence detection. Both
// participants call these operations against the same shared record;
// each writes only the list fields it owns.
type MatchService struct {
	Dynamo *DynamoService
	TMDB   *TMDBService
}

func matchKey(matchID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// CreateMatch creates a pending match naming an invitee. In
// questionnaire mode initiatorMovies is the initiator's fixed deck; in
// infinite mode it is empty and decks are generated from the match ID.
func (ms *MatchService) CreateMatch(ctx context.Context, initiator, invitee string, initiatorMovies []string, mode string) (*models.Match, error) {
	if initiator == "" || invitee == "" {
		return nil, fmt.Errorf("initiator and invitee are required")
	}
	if mode != models.MatchModeInfinite && mode != models.MatchModeQuestionnaire {
		return nil, fmt.Errorf("invalid match mode: %s", mode)
	}
	if initiatorMovies == nil {
		initiatorMovies = []string{}
	}

	now := nowRFC3339()
	match := &models.Match{
		MatchID:          uuid.NewString(),
		SchemaVersion:    models.MatchSchemaVersion,
		Mode:             mode,
		Users:            []string{initiator, invitee},
		Status:           models.MatchStatusPending,
		Initiator:        initiator,
		Invitee:          invitee,
		InitiatorSwipes:  []string{},
		InviteeSwipes:    []string{},
		InitiatorMovies:  initiatorMovies,
		InviteeMovies:    []string{},
		InitiatorAnswers: []string{},
		InviteeAnswers:   []string{},
		CurrentIndex:     0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := ms.Dynamo.PutItemIfAbsent(ctx, models.Match{}.TableName(), match, "matchId"); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return match, nil
}

// GetMatch reads one match record.
func (ms *MatchService) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	item, err := ms.Dynamo.GetItem(ctx, models.Match{}.TableName(), matchKey(matchID))
	if err != nil {
		return nil, err
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

// MatchesForUser returns every match the user participates in.
func (ms *MatchService) MatchesForUser(ctx context.Context, username string) ([]models.Match, error) {
	var matches []models.Match
	err := ms.Dynamo.ScanWithFilter(ctx, models.Match{}.TableName(), func(item map[string]types.AttributeValue) bool {
		return utils.StringListContains(item, "users", username)
	}, &matches)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches for %s: %w", username, err)
	}
	return matches, nil
}

// PendingInviteFor returns the first pending match naming the user as
// invitee, or nil when there is none. The invite poll calls this.
func (ms *MatchService) PendingInviteFor(ctx context.Context, username string) (*models.Match, error) {
	matches, err := ms.MatchesForUser(ctx, username)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		if matches[i].Invitee == username && matches[i].Status == models.MatchStatusPending {
			return &matches[i], nil
		}
	}
	return nil, nil
}

// AcceptMatch flips a pending match to active and records the invitee's
// deck. Called by the invited client only.
func (ms *MatchService) AcceptMatch(ctx context.Context, matchID string, inviteeMovies []string) (*models.Match, error) {
	if inviteeMovies == nil {
		inviteeMovies = []string{}
	}

	moviesAttr, err := attributevalue.Marshal(inviteeMovies)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invitee movies: %w", err)
	}

	attrs, err := ms.Dynamo.UpdateItem(ctx, models.Match{}.TableName(),
		"SET #s = :status, inviteeMovies = :movies, updatedAt = :ua",
		matchKey(matchID),
		map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: models.MatchStatusActive},
			":movies": moviesAttr,
			":ua":     &types.AttributeValueMemberS{Value: nowRFC3339()},
		},
		map[string]string{"#s": "status"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to accept match: %w", err)
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(attrs, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

// EnsureSession initializes absent swipe-list fields to empty lists.
// Calling it on an already-initialized match is a no-op; populated
// lists are never overwritten.
func (ms *MatchService) EnsureSession(ctx context.Context, matchID string) error {
	match, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}

	var sets []string
	values := map[string]types.AttributeValue{}
	if match.InitiatorSwipes == nil {
		sets = append(sets, "initiatorSwipes = :emptyInitiator")
		values[":emptyInitiator"] = &types.AttributeValueMemberL{Value: []types.AttributeValue{}}
	}
	if match.InviteeSwipes == nil {
		sets = append(sets, "inviteeSwipes = :emptyInvitee")
		values[":emptyInvitee"] = &types.AttributeValueMemberL{Value: []types.AttributeValue{}}
	}
	if len(sets) == 0 {
		return nil
	}

	_, err = ms.Dynamo.UpdateItem(ctx, models.Match{}.TableName(),
		"SET "+strings.Join(sets, ", "), matchKey(matchID), values, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize session: %w", err)
	}
	return nil
}

// SubmitSwipe records a swipe decision. Left swipes are never
// persisted. Right swipes append to the caller's accept list with set
// semantics, so resubmitting the same movie is a no-op, as is a swipe
// from someone who is not a participant.
func (ms *MatchService) SubmitSwipe(ctx context.Context, matchID, username, movieID, direction string) error {
	if direction != models.SwipeRight {
		return nil
	}

	match, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}

	var field string
	var swipes []string
	switch username {
	case match.Initiator:
		field, swipes = "initiatorSwipes", match.InitiatorSwipes
	case match.Invitee:
		field, swipes = "inviteeSwipes", match.InviteeSwipes
	default:
		return nil
	}

	for _, id := range swipes {
		if id == movieID {
			return nil
		}
	}
	swipes = append(swipes, movieID)

	return ms.updateStringList(ctx, matchID, field, swipes)
}

// Swipes returns both participants' accept lists.
func (ms *MatchService) Swipes(ctx context.Context, matchID string) (initiator, invitee []string, err error) {
	match, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	return match.InitiatorSwipes, match.InviteeSwipes, nil
}

// firstCommonID scans the initiator's accept list left to right and
// returns the first ID also present in the invitee's list. This is the
// convergence tie-break.
func firstCommonID(initiator, invitee []string) string {
	inviteeSet := make(map[string]struct{}, len(invitee))
	for _, id := range invitee {
		inviteeSet[id] = struct{}{}
	}
	for _, id := range initiator {
		if _, ok := inviteeSet[id]; ok {
			return id
		}
	}
	return ""
}

// CheckForMatch looks for a movie both participants accepted. On the
// first hit it finishes the match with that movie and returns it
// resolved from the catalog. No intersection yet returns (nil, nil),
// which is not an error. A finished match returns its stored result.
func (ms *MatchService) CheckForMatch(ctx context.Context, matchID string) (*models.Movie, error) {
	match, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if match.Status == models.MatchStatusFinished {
		if match.ResultMovieID == "" {
			return nil, nil
		}
		return ms.TMDB.GetMovie(ctx, match.ResultMovieID)
	}

	common := firstCommonID(match.InitiatorSwipes, match.InviteeSwipes)
	if common == "" {
		return nil, nil
	}

	movie, err := ms.TMDB.GetMovie(ctx, common)
	if err != nil {
		return nil, err
	}
	if err := ms.FinishMatch(ctx, matchID, common); err != nil {
		return nil, err
	}
	return movie, nil
}

// FinishMatch marks the match finished with its result movie. The
// record is retained; terminal state is never deleted.
func (ms *MatchService) FinishMatch(ctx context.Context, matchID, movieID string) error {
	_, err := ms.Dynamo.UpdateItem(ctx, models.Match{}.TableName(),
		"SET #s = :status, resultMovieId = :movie, updatedAt = :ua",
		matchKey(matchID),
		map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: models.MatchStatusFinished},
			":movie":  &types.AttributeValueMemberS{Value: movieID},
			":ua":     &types.AttributeValueMemberS{Value: nowRFC3339()},
		},
		map[string]string{"#s": "status"},
	)
	if err != nil {
		return fmt.Errorf("failed to finish match: %w", err)
	}
	return nil
}

// SubmitAnswer appends a questionnaire answer for the caller's next
// deck position. Answer lists never grow past the deck size.
func (ms *MatchService) SubmitAnswer(ctx context.Context, matchID, username, answer string) (*models.Match, error) {
	if !models.ValidAnswer(answer) {
		return nil, fmt.Errorf("invalid answer: %s", answer)
	}

	match, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	var field string
	var answers, deck []string
	switch username {
	case match.Initiator:
		field, answers, deck = "initiatorAnswers", match.InitiatorAnswers, match.InitiatorMovies
	case match.Invitee:
		field, answers, deck = "inviteeAnswers", match.InviteeAnswers, match.InviteeMovies
	default:
		return nil, fmt.Errorf("user %s is not a participant", username)
	}

	limit := len(deck)
	if limit == 0 {
		limit = models.QuestionnaireDeckSize
	}
	if len(answers) >= limit {
		return match, nil
	}
	answers = append(answers, answer)

	answersAttr, err := attributevalue.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}

	attrs, err := ms.Dynamo.UpdateItem(ctx, models.Match{}.TableName(),
		fmt.Sprintf("SET %s = :answers, currentIndex = :idx, updatedAt = :ua", field),
		matchKey(matchID),
		map[string]types.AttributeValue{
			":answers": answersAttr,
			":idx":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", match.CurrentIndex+1)},
			":ua":      &types.AttributeValueMemberS{Value: nowRFC3339()},
		},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to submit answer: %w", err)
	}

	var updated models.Match
	if err := attributevalue.UnmarshalMap(attrs, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &updated, nil
}

// AnswersComplete reports whether both participants have answered their
// entire questionnaire deck.
func (ms *MatchService) AnswersComplete(match *models.Match) bool {
	if len(match.InitiatorMovies) == 0 || len(match.InviteeMovies) == 0 {
		return false
	}
	return len(match.InitiatorAnswers) >= len(match.InitiatorMovies) &&
		len(match.InviteeAnswers) >= len(match.InviteeMovies)
}

func (ms *MatchService) updateStringList(ctx context.Context, matchID, field string, list []string) error {
	listAttr, err := attributevalue.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", field, err)
	}

	_, err = ms.Dynamo.UpdateItem(ctx, models.Match{}.TableName(),
		fmt.Sprintf("SET %s = :list, updatedAt = :ua", field),
		matchKey(matchID),
		map[string]types.AttributeValue{
			":list": listAttr,
			":ua":   &types.AttributeValueMemberS{Value: nowRFC3339()},
		},
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", field, err)
	}
	return nil
}
