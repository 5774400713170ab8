package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"reelmatch_server/models"
)

// TMDBService is the movie catalog client. Requests are paced with a
// client-side rate limiter; TMDB throttles around 50 requests/second.
type TMDBService struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
	Limiter *rate.Limiter
}

// NewTMDBService creates a catalog client for the given credential and
// base URL. The base URL is injectable so tests can point at a stub.
func NewTMDBService(apiKey, baseURL string) *TMDBService {
	return &TMDBService{
		APIKey:  apiKey,
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Limiter: rate.NewLimiter(rate.Limit(40), 40),
	}
}

func (ts *TMDBService) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := ts.Limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := ts.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+ts.APIKey)

	resp, err := ts.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb request %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// SearchMovies searches the catalog by free-text query.
func (ts *TMDBService) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	var page models.MoviePage
	q := url.Values{"query": {query}}
	if err := ts.get(ctx, "/search/movie", q, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// NowPlaying returns the first page of movies currently in theatres.
func (ts *TMDBService) NowPlaying(ctx context.Context, region string) ([]models.Movie, error) {
	var page models.MoviePage
	q := url.Values{"language": {"en-US"}, "page": {"1"}, "region": {region}}
	if err := ts.get(ctx, "/movie/now_playing", q, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// DiscoverPopular returns the default browse listing, most popular first.
func (ts *TMDBService) DiscoverPopular(ctx context.Context) ([]models.Movie, error) {
	var page models.MoviePage
	q := url.Values{"sort_by": {"popularity.desc"}}
	if err := ts.get(ctx, "/discover/movie", q, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// GetMovie fetches full details for one movie.
func (ts *TMDBService) GetMovie(ctx context.Context, id string) (*models.Movie, error) {
	var movie models.Movie
	if err := ts.get(ctx, "/movie/"+id, nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetMoviesByIDs resolves a list of IDs to full movies, skipping any
// that fail to resolve.
func (ts *TMDBService) GetMoviesByIDs(ctx context.Context, ids []string) []models.Movie {
	movies := make([]models.Movie, 0, len(ids))
	for _, id := range ids {
		movie, err := ts.GetMovie(ctx, id)
		if err != nil {
			continue
		}
		movies = append(movies, *movie)
	}
	return movies
}

// PopularPage fetches one page of the popular listing. TMDB serves 500
// pages of 20 movies each.
func (ts *TMDBService) PopularPage(ctx context.Context, page int) ([]models.Movie, error) {
	var result models.MoviePage
	q := url.Values{"page": {strconv.Itoa(page)}}
	if err := ts.get(ctx, "/movie/popular", q, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// GenresForMovie fetches the genre tags of one movie.
func (ts *TMDBService) GenresForMovie(ctx context.Context, id string) ([]models.Genre, error) {
	movie, err := ts.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	return movie.Genres, nil
}

// WatchProviders returns the flatrate streaming providers for a movie
// in the given region.
func (ts *TMDBService) WatchProviders(ctx context.Context, id, region string) ([]models.WatchProvider, error) {
	var envelope struct {
		Results map[string]struct {
			Flatrate []models.WatchProvider `json:"flatrate"`
		} `json:"results"`
	}
	if err := ts.get(ctx, "/movie/"+id+"/watch/providers", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Results[region].Flatrate, nil
}

// AllProviders lists every streaming platform available in a region.
func (ts *TMDBService) AllProviders(ctx context.Context, region string) ([]models.WatchProvider, error) {
	var envelope struct {
		Results []models.WatchProvider `json:"results"`
	}
	q := url.Values{"language": {"en-US"}, "watch_region": {region}}
	if err := ts.get(ctx, "/watch/providers/movie", q, &envelope); err != nil {
		return nil, err
	}
	return envelope.Results, nil
}

// DiscoverByGenres fetches one page of the discovery listing filtered
// to the given genres.
func (ts *TMDBService) DiscoverByGenres(ctx context.Context, genreIDs []int, page int) ([]models.Movie, error) {
	parts := make([]string, len(genreIDs))
	for i, id := range genreIDs {
		parts[i] = strconv.Itoa(id)
	}
	var result models.MoviePage
	q := url.Values{
		"with_genres": {strings.Join(parts, ",")},
		"page":        {strconv.Itoa(page)},
	}
	if err := ts.get(ctx, "/discover/movie", q, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// Recommendations returns movies recommended alongside the given one.
func (ts *TMDBService) Recommendations(ctx context.Context, id string) ([]models.Movie, error) {
	var page models.MoviePage
	if err := ts.get(ctx, "/movie/"+id+"/recommendations", nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Trailer returns the first YouTube trailer for a movie, or nil when
// the movie has none.
func (ts *TMDBService) Trailer(ctx context.Context, id string) (*models.Video, error) {
	var envelope struct {
		Results []models.Video `json:"results"`
	}
	if err := ts.get(ctx, "/movie/"+id+"/videos", nil, &envelope); err != nil {
		return nil, err
	}
	for _, video := range envelope.Results {
		if video.Site == "YouTube" && video.Type == "Trailer" {
			v := video
			return &v, nil
		}
	}
	return nil, nil
}
