// Package plex talks to the Plex media server: locating items by external
// id, rewriting their titles with status markers, and triggering library
// scans when placeholders appear or real files land.
package plex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// Sentinel errors for the plex package.
var (
	// ErrUnavailable is returned when the server cannot be reached.
	ErrUnavailable = errors.New("plex server unavailable")

	// ErrItemNotFound is returned when no library item matches.
	ErrItemNotFound = errors.New("item not found in plex")
)

// Item is one library entry, reduced to what the title updater needs.
type Item struct {
	RatingKey string
	Title     string
	FilePath  string
}

// Client talks to one Plex server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Plex client.
func NewClient(baseURL, token string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		log:     log.With("component", "plex"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// metadata mirrors the slice of Plex's JSON responses we consume.
type metadata struct {
	RatingKey string `json:"ratingKey"`
	Title     string `json:"title"`
	GUIDs     []struct {
		ID string `json:"id"`
	} `json:"Guid"`
	Media []struct {
		Part []struct {
			File string `json:"file"`
		} `json:"Part"`
	} `json:"Media"`
}

type containerResponse struct {
	MediaContainer struct {
		Metadata []metadata `json:"Metadata"`
	} `json:"MediaContainer"`
}

// FindByGUID scans a library section for the item carrying an external-id
// guid such as "tmdb://550" or "tvdb://349736".
func (c *Client) FindByGUID(ctx context.Context, sectionID int, guid string) (Item, error) {
	var resp containerResponse
	path := fmt.Sprintf("/library/sections/%d/all", sectionID)
	if err := c.get(ctx, path, url.Values{"includeGuids": {"1"}}, &resp); err != nil {
		return Item{}, err
	}

	for _, md := range resp.MediaContainer.Metadata {
		for _, g := range md.GUIDs {
			if g.ID == guid {
				return itemFromMetadata(md), nil
			}
		}
	}
	return Item{}, fmt.Errorf("guid %s in section %d: %w", guid, sectionID, ErrItemNotFound)
}

// FindMovieByTMDB locates a movie by its TMDB id.
func (c *Client) FindMovieByTMDB(ctx context.Context, sectionID int, tmdbID int64) (Item, error) {
	return c.FindByGUID(ctx, sectionID, fmt.Sprintf("tmdb://%d", tmdbID))
}

// FindSeriesByTVDB locates a series by its TVDB id.
func (c *Client) FindSeriesByTVDB(ctx context.Context, sectionID int, tvdbID int64) (Item, error) {
	return c.FindByGUID(ctx, sectionID, fmt.Sprintf("tvdb://%d", tvdbID))
}

// FindEpisode locates one episode of a series by season and episode number.
func (c *Client) FindEpisode(ctx context.Context, seriesRatingKey string, season, episode int) (Item, error) {
	path := "/library/metadata/" + seriesRatingKey + "/allLeaves"
	return c.findEpisodeLeaf(ctx, path, season, episode)
}

type leafResponse struct {
	MediaContainer struct {
		Metadata []struct {
			metadata
			ParentIndex int `json:"parentIndex"`
			Index       int `json:"index"`
		} `json:"Metadata"`
	} `json:"MediaContainer"`
}

func (c *Client) findEpisodeLeaf(ctx context.Context, path string, season, episode int) (Item, error) {
	var resp leafResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return Item{}, err
	}
	for _, md := range resp.MediaContainer.Metadata {
		if md.ParentIndex == season && md.Index == episode {
			return itemFromMetadata(md.metadata), nil
		}
	}
	return Item{}, fmt.Errorf("S%02dE%02d: %w", season, episode, ErrItemNotFound)
}

// UpdateTitle renames a library item and locks the title field so the next
// metadata refresh does not undo it.
func (c *Client) UpdateTitle(ctx context.Context, ratingKey, title string) error {
	query := url.Values{
		"title.value":  {title},
		"title.locked": {"1"},
	}
	if err := c.call(ctx, http.MethodPut, "/library/metadata/"+ratingKey, query, nil); err != nil {
		return fmt.Errorf("update title %s: %w", ratingKey, err)
	}
	c.log.Debug("title updated", "rating_key", ratingKey, "title", title)
	return nil
}

// RefreshSection triggers a scan of one library section. With a path, only
// that folder is scanned.
func (c *Client) RefreshSection(ctx context.Context, sectionID int, path string) error {
	query := url.Values{}
	if path != "" {
		query.Set("path", path)
	}
	endpoint := fmt.Sprintf("/library/sections/%d/refresh", sectionID)
	if err := c.call(ctx, http.MethodGet, endpoint, query, nil); err != nil {
		return fmt.Errorf("refresh section %d: %w", sectionID, err)
	}
	return nil
}

func itemFromMetadata(md metadata) Item {
	item := Item{RatingKey: md.RatingKey, Title: md.Title}
	if len(md.Media) > 0 && len(md.Media[0].Part) > 0 {
		item.FilePath = md.Media[0].Part[0].File
	}
	return item
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	return c.call(ctx, http.MethodGet, path, query, result)
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, result any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("X-Plex-Token", c.token)
	reqURL := c.baseURL + path + "?" + query.Encode()

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
			if err != nil {
				return fmt.Errorf("create request: %w", err)
			}
			req.Header.Set("Accept", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				c.log.Debug("api request failed", "method", method, "path", path, "error", err)
				return ErrUnavailable
			}
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode == http.StatusNotFound {
				return ErrItemNotFound
			}
			if resp.StatusCode >= 500 {
				return errStatus{code: resp.StatusCode}
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return fmt.Errorf("unexpected status: %d", resp.StatusCode)
			}
			if result == nil {
				return nil
			}
			if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var se errStatus
			return errors.Is(err, ErrUnavailable) || errors.As(err, &se)
		}),
	)
}

// errStatus marks a retryable server-side failure.
type errStatus struct{ code int }

func (e errStatus) Error() string { return fmt.Sprintf("unexpected status: %d", e.code) }
