package arr

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/vmunix/holdarr/internal/monitor"
)

// Series is Sonarr's record for one show, reduced to the fields we use.
type Series struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Year   int    `json:"year"`
	TvdbID int64  `json:"tvdbId"`
	Path   string `json:"path"`
}

// Episode is Sonarr's record for one episode.
type Episode struct {
	ID            int64 `json:"id"`
	SeasonNumber  int   `json:"seasonNumber"`
	EpisodeNumber int   `json:"episodeNumber"`
	HasFile       bool  `json:"hasFile"`
	Monitored     bool  `json:"monitored"`
}

// SonarrClient talks to one Sonarr instance.
type SonarrClient struct {
	c *client
}

var _ monitor.QueueClient = (*SonarrClient)(nil)

// NewSonarrClient creates a client for a Sonarr v3 API.
func NewSonarrClient(baseURL, apiKey string, log *slog.Logger) *SonarrClient {
	return &SonarrClient{c: newClient(baseURL, apiKey, "sonarr", log)}
}

// FetchQueue returns the download queue keyed by episode id.
func (s *SonarrClient) FetchQueue(ctx context.Context) ([]monitor.QueueItem, error) {
	records, err := s.c.fetchQueue(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]monitor.QueueItem, 0, len(records))
	for _, rec := range records {
		items = append(items, monitor.QueueItem{
			BackendID: rec.EpisodeID,
			Status:    rec.Status,
			Size:      int64(rec.Size),
			SizeLeft:  int64(rec.SizeLeft),
		})
	}
	return items, nil
}

// FetchUnit returns whether Sonarr has imported a file for the episode.
func (s *SonarrClient) FetchUnit(ctx context.Context, episodeID int64) (monitor.UnitDetail, error) {
	var e Episode
	if err := s.c.get(ctx, "/api/v3/episode/"+strconv.FormatInt(episodeID, 10), nil, &e); err != nil {
		return monitor.UnitDetail{}, fmt.Errorf("fetch episode %d: %w", episodeID, err)
	}
	return monitor.UnitDetail{HasFile: e.HasFile}, nil
}

// LookupSeries finds the Sonarr series for a TVDB id.
func (s *SonarrClient) LookupSeries(ctx context.Context, tvdbID int64) (Series, error) {
	query := url.Values{"tvdbId": {strconv.FormatInt(tvdbID, 10)}}
	var series []Series
	if err := s.c.get(ctx, "/api/v3/series", query, &series); err != nil {
		return Series{}, fmt.Errorf("lookup series tvdb=%d: %w", tvdbID, err)
	}
	if len(series) == 0 {
		return Series{}, fmt.Errorf("lookup series tvdb=%d: %w", tvdbID, ErrNotFound)
	}
	return series[0], nil
}

// ListEpisodes returns every episode of a series.
func (s *SonarrClient) ListEpisodes(ctx context.Context, seriesID int64) ([]Episode, error) {
	query := url.Values{"seriesId": {strconv.FormatInt(seriesID, 10)}}
	var eps []Episode
	if err := s.c.get(ctx, "/api/v3/episode", query, &eps); err != nil {
		return nil, fmt.Errorf("list episodes series=%d: %w", seriesID, err)
	}
	return eps, nil
}

// MonitorEpisodes flips the monitored flag on a set of episodes.
func (s *SonarrClient) MonitorEpisodes(ctx context.Context, episodeIDs []int64, monitored bool) error {
	if len(episodeIDs) == 0 {
		return nil
	}
	body := map[string]any{
		"episodeIds": episodeIDs,
		"monitored":  monitored,
	}
	if err := s.c.put(ctx, "/api/v3/episode/monitor", body, nil); err != nil {
		return fmt.Errorf("monitor episodes: %w", err)
	}
	return nil
}

// SearchEpisodes triggers an indexer search for a set of episodes.
func (s *SonarrClient) SearchEpisodes(ctx context.Context, episodeIDs []int64) error {
	if len(episodeIDs) == 0 {
		return nil
	}
	body := map[string]any{
		"name":       "EpisodeSearch",
		"episodeIds": episodeIDs,
	}
	if err := s.c.post(ctx, "/api/v3/command", body, nil); err != nil {
		return fmt.Errorf("episode search: %w", err)
	}
	s.c.log.Info("episode search triggered", "episodes", len(episodeIDs))
	return nil
}
