package arr

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/vmunix/holdarr/internal/monitor"
)

// Movie is Radarr's record for one film, reduced to the fields we use.
type Movie struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Year    int    `json:"year"`
	TmdbID  int64  `json:"tmdbId"`
	HasFile bool   `json:"hasFile"`
	Path    string `json:"path"`
}

// RadarrClient talks to one Radarr instance.
type RadarrClient struct {
	c *client
}

var _ monitor.QueueClient = (*RadarrClient)(nil)

// NewRadarrClient creates a client for a Radarr v3 API.
func NewRadarrClient(baseURL, apiKey string, log *slog.Logger) *RadarrClient {
	return &RadarrClient{c: newClient(baseURL, apiKey, "radarr", log)}
}

// FetchQueue returns the download queue keyed by movie id.
func (r *RadarrClient) FetchQueue(ctx context.Context) ([]monitor.QueueItem, error) {
	records, err := r.c.fetchQueue(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]monitor.QueueItem, 0, len(records))
	for _, rec := range records {
		items = append(items, monitor.QueueItem{
			BackendID: rec.MovieID,
			Status:    rec.Status,
			Size:      int64(rec.Size),
			SizeLeft:  int64(rec.SizeLeft),
		})
	}
	return items, nil
}

// FetchUnit returns whether Radarr has imported a file for the movie.
func (r *RadarrClient) FetchUnit(ctx context.Context, movieID int64) (monitor.UnitDetail, error) {
	var m Movie
	if err := r.c.get(ctx, "/api/v3/movie/"+strconv.FormatInt(movieID, 10), nil, &m); err != nil {
		return monitor.UnitDetail{}, fmt.Errorf("fetch movie %d: %w", movieID, err)
	}
	return monitor.UnitDetail{HasFile: m.HasFile}, nil
}

// LookupMovie finds the Radarr movie for a TMDB id.
func (r *RadarrClient) LookupMovie(ctx context.Context, tmdbID int64) (Movie, error) {
	query := url.Values{"tmdbId": {strconv.FormatInt(tmdbID, 10)}}
	var movies []Movie
	if err := r.c.get(ctx, "/api/v3/movie", query, &movies); err != nil {
		return Movie{}, fmt.Errorf("lookup movie tmdb=%d: %w", tmdbID, err)
	}
	if len(movies) == 0 {
		return Movie{}, fmt.Errorf("lookup movie tmdb=%d: %w", tmdbID, ErrNotFound)
	}
	return movies[0], nil
}

// SearchMovie triggers an indexer search for the movie.
func (r *RadarrClient) SearchMovie(ctx context.Context, movieID int64) error {
	body := map[string]any{
		"name":     "MoviesSearch",
		"movieIds": []int64{movieID},
	}
	if err := r.c.post(ctx, "/api/v3/command", body, nil); err != nil {
		return fmt.Errorf("movie search %d: %w", movieID, err)
	}
	r.c.log.Info("movie search triggered", "movie_id", movieID)
	return nil
}
