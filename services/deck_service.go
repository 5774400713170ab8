package services

import (
	"context"
	"math/rand"
	"strconv"

	"reelmatch_server/models"
)

// popularPageCount is the depth of TMDB's popular listing: 500 pages of
// 20 movies each.
const popularPageCount = 500

// DeckService produces candidate decks from the catalog's popular
// listing. Session decks are a pure function of (seed, offset, count),
// so two clients sharing a session ID see the same ordering without any
// coordination.
type DeckService struct {
	TMDB *TMDBService
}

// seededRand derives a deterministic [0,1) generator from a session
// seed: an FNV-1a-style fold of the seed string feeds a mulberry32
// mixer. All arithmetic is 32-bit so every client computes the same
// sequence.
func seededRand(seed string) func() float64 {
	h := uint32(2166136261)
	for i := 0; i < len(seed); i++ {
		h ^= uint32(seed[i])
		h += (h << 1) + (h << 4) + (h << 7) + (h << 8) + (h << 24)
	}
	return func() float64 {
		h += 0x6D2B79F5
		t := h
		t = (t ^ (t >> 15)) * (t | 1)
		t ^= t + (t^(t>>7))*(t|61)
		return float64(t^(t>>14)) / 4294967296.0
	}
}

// MovieIDsForSession returns the deck slice [offset, offset+count) of
// the session's infinite candidate sequence. Unique IDs are accumulated
// in insertion order from pseudo-randomly chosen popular pages until
// enough are collected or the fetch budget (3x the requested depth) is
// spent. Catalog failures end accumulation early; callers get whatever
// was gathered, which may be shorter than count.
func (ds *DeckService) MovieIDsForSession(ctx context.Context, seed string, offset, count int) ([]string, error) {
	if count <= 0 || offset < 0 {
		return []string{}, nil
	}

	next := seededRand(seed)
	want := offset + count
	seen := make(map[string]struct{})
	ordered := make([]string, 0, want)

	for attempts := 0; len(ordered) < want && attempts < want*3; attempts++ {
		page := int(next()*popularPageCount) + 1
		movies, err := ds.TMDB.PopularPage(ctx, page)
		if err != nil {
			break
		}
		for _, movie := range movies {
			id := strconv.FormatInt(movie.ID, 10)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ordered = append(ordered, id)
			if len(ordered) >= want {
				break
			}
		}
	}

	if offset >= len(ordered) {
		return []string{}, nil
	}
	end := offset + count
	if end > len(ordered) {
		end = len(ordered)
	}
	return ordered[offset:end], nil
}

// MoviesForSession resolves a deck slice to full movie data. IDs that
// fail to resolve are dropped rather than failing the deck.
func (ds *DeckService) MoviesForSession(ctx context.Context, seed string, offset, count int) ([]models.Movie, error) {
	ids, err := ds.MovieIDsForSession(ctx, seed, offset, count)
	if err != nil {
		return nil, err
	}
	return ds.TMDB.GetMoviesByIDs(ctx, ids), nil
}

// RandomPopularMovieIDs gathers count unique IDs from random popular
// pages without a seed. Used for the invitee's questionnaire deck, which
// is intentionally disjoint from the initiator's.
func (ds *DeckService) RandomPopularMovieIDs(ctx context.Context, count int) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}

	seen := make(map[string]struct{})
	ordered := make([]string, 0, count)

	for attempts := 0; len(ordered) < count && attempts < count*3; attempts++ {
		page := rand.Intn(popularPageCount) + 1
		movies, err := ds.TMDB.PopularPage(ctx, page)
		if err != nil {
			break
		}
		for _, movie := range movies {
			id := strconv.FormatInt(movie.ID, 10)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ordered = append(ordered, id)
			if len(ordered) >= count {
				break
			}
		}
	}

	return ordered, nil
}
