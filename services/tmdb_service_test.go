package services

import (
	"context"
	"net/http"
	"testing"
)

func TestGetMovieParsesDetails(t *testing.T) {
	tmdb := newCatalogStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			http.NotFound(w, r)
			return
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 603,
			"title": "The Matrix",
			"overview": "A hacker learns the truth.",
			"poster_path": "/matrix.jpg",
			"release_date": "1999-03-31",
			"vote_average": 8.2,
			"genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}]
		}`))
	})

	movie, err := tmdb.GetMovie(context.Background(), "603")
	if err != nil {
		t.Fatalf("GetMovie failed: %v", err)
	}
	if movie.ID != 603 || movie.Title != "The Matrix" {
		t.Errorf("unexpected movie: %+v", movie)
	}
	if len(movie.Genres) != 2 || movie.Genres[0].ID != 28 {
		t.Errorf("unexpected genres: %+v", movie.Genres)
	}
}

func TestGetMovieErrorStatus(t *testing.T) {
	tmdb := newCatalogStub(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	if _, err := tmdb.GetMovie(context.Background(), "999999"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestGetMoviesByIDsSkipsFailures(t *testing.T) {
	tmdb := newCatalogStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/movie/2" {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 1, "title": "Kept"}`))
	})

	movies := tmdb.GetMoviesByIDs(context.Background(), []string{"1", "2", "3"})
	if len(movies) != 2 {
		t.Fatalf("expected 2 resolved movies, got %d", len(movies))
	}
}

func TestSearchMoviesSendsQuery(t *testing.T) {
	tmdb := newCatalogStub(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "matrix" {
			t.Errorf("expected query=matrix, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page": 1, "results": [{"id": 603, "title": "The Matrix"}]}`))
	})

	movies, err := tmdb.SearchMovies(context.Background(), "matrix")
	if err != nil {
		t.Fatalf("SearchMovies failed: %v", err)
	}
	if len(movies) != 1 || movies[0].ID != 603 {
		t.Errorf("unexpected results: %+v", movies)
	}
}

func TestWatchProvidersFiltersRegion(t *testing.T) {
	tmdb := newCatalogStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": {
			"CA": {"flatrate": [{"provider_id": 8, "provider_name": "Netflix"}]},
			"US": {"flatrate": [{"provider_id": 15, "provider_name": "Hulu"}]}
		}}`))
	})

	providers, err := tmdb.WatchProviders(context.Background(), "603", "CA")
	if err != nil {
		t.Fatalf("WatchProviders failed: %v", err)
	}
	if len(providers) != 1 || providers[0].ProviderName != "Netflix" {
		t.Errorf("unexpected providers: %+v", providers)
	}
}

func TestTrailerPicksFirstYouTubeTrailer(t *testing.T) {
	tmdb := newCatalogStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [
			{"key": "aaa", "name": "Featurette", "site": "YouTube", "type": "Featurette"},
			{"key": "bbb", "name": "Official Trailer", "site": "Vimeo", "type": "Trailer"},
			{"key": "ccc", "name": "Official Trailer", "site": "YouTube", "type": "Trailer"},
			{"key": "ddd", "name": "Trailer 2", "site": "YouTube", "type": "Trailer"}
		]}`))
	})

	video, err := tmdb.Trailer(context.Background(), "603")
	if err != nil {
		t.Fatalf("Trailer failed: %v", err)
	}
	if video == nil || video.Key != "ccc" {
		t.Errorf("expected trailer ccc, got %+v", video)
	}
}

func TestTrailerNoneAvailable(t *testing.T) {
	tmdb := newCatalogStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": []}`))
	})

	video, err := tmdb.Trailer(context.Background(), "603")
	if err != nil {
		t.Fatalf("Trailer failed: %v", err)
	}
	if video != nil {
		t.Errorf("expected no trailer, got %+v", video)
	}
}
