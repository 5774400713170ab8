package services

import (
	"context"
	"sort"
	"strconv"

	"reelmatch_server/models"
)

const (
	smartMatchTopGenres = 2
	smartMatchMaxPages  = 5
)

// SmartMatchService finds a result for questionnaire sessions, where
// the two decks are disjoint and a direct intersection is unlikely. It
// builds a genre profile from everything either participant liked and
// discovers a fresh movie matching that profile.
type SmartMatchService struct {
	TMDB *TMDBService
}

// TopGenres tallies genre tags across the given movies and returns the
// top two by count. Ties keep first-seen order. Movies that fail to
// resolve are skipped.
func (ss *SmartMatchService) TopGenres(ctx context.Context, movieIDs []string) ([]int, error) {
	counts := make(map[int]int)
	var order []int

	for _, id := range movieIDs {
		genres, err := ss.TMDB.GenresForMovie(ctx, id)
		if err != nil {
			continue
		}
		for _, genre := range genres {
			if counts[genre.ID] == 0 {
				order = append(order, genre.ID)
			}
			counts[genre.ID]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > smartMatchTopGenres {
		order = order[:smartMatchTopGenres]
	}
	return order, nil
}

// Discover scans up to five pages of the genre-filtered discovery
// listing and returns the first movie neither participant has seen, or
// nil when nothing qualifies.
func (ss *SmartMatchService) Discover(ctx context.Context, genreIDs []int, excludeIDs []string) (*models.Movie, error) {
	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	for page := 1; page <= smartMatchMaxPages; page++ {
		movies, err := ss.TMDB.DiscoverByGenres(ctx, genreIDs, page)
		if err != nil {
			return nil, err
		}
		for i := range movies {
			id := strconv.FormatInt(movies[i].ID, 10)
			if _, ok := excluded[id]; !ok {
				return &movies[i], nil
			}
		}
	}
	return nil, nil
}

// likedMovies returns the deck entries a participant answered love or
// like, in deck order.
func likedMovies(deck, answers []string) []string {
	liked := []string{}
	for i, answer := range answers {
		if i >= len(deck) {
			break
		}
		if answer == models.AnswerLove || answer == models.AnswerLike {
			liked = append(liked, deck[i])
		}
	}
	return liked
}

// Resolve picks the result movie for a completed questionnaire session.
// Preference order: a direct overlap of liked movies, a genre-profile
// discovery excluding everything shown to either participant, any liked
// movie (initiator's first), the first movie shown to the initiator.
// Returns "" when the session has nothing to fall back on.
func (ss *SmartMatchService) Resolve(ctx context.Context, match *models.Match) (string, error) {
	initiatorLiked := likedMovies(match.InitiatorMovies, match.InitiatorAnswers)
	inviteeLiked := likedMovies(match.InviteeMovies, match.InviteeAnswers)

	if id := firstCommonID(initiatorLiked, inviteeLiked); id != "" {
		return id, nil
	}

	liked := append(append([]string{}, initiatorLiked...), inviteeLiked...)
	shown := append(append([]string{}, match.InitiatorMovies...), match.InviteeMovies...)

	if len(liked) > 0 {
		genres, err := ss.TopGenres(ctx, liked)
		if err == nil && len(genres) > 0 {
			movie, err := ss.Discover(ctx, genres, shown)
			if err == nil && movie != nil {
				return strconv.FormatInt(movie.ID, 10), nil
			}
		}
	}

	if len(initiatorLiked) > 0 {
		return initiatorLiked[0], nil
	}
	if len(inviteeLiked) > 0 {
		return inviteeLiked[0], nil
	}
	if len(match.InitiatorMovies) > 0 {
		return match.InitiatorMovies[0], nil
	}
	return "", nil
}
