package arr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSonarr_FetchQueue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/queue", r.URL.Path)
		_, _ = w.Write([]byte(`{"records":[{"episodeId":7,"status":"completed","size":500,"sizeleft":0}]}`))
	}))
	defer srv.Close()

	client := NewSonarrClient(srv.URL, "test-key", nil)
	items, err := client.FetchQueue(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(7), items[0].BackendID)
	assert.Equal(t, "completed", items[0].Status)
}

func TestSonarr_FetchUnit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/episode/7", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":7,"seasonNumber":1,"episodeNumber":8,"hasFile":false}`))
	}))
	defer srv.Close()

	client := NewSonarrClient(srv.URL, "test-key", nil)
	detail, err := client.FetchUnit(context.Background(), 7)

	require.NoError(t, err)
	assert.False(t, detail.HasFile)
}

func TestSonarr_LookupSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/series", r.URL.Path)
		assert.Equal(t, "81189", r.URL.Query().Get("tvdbId"))
		_, _ = w.Write([]byte(`[{"id":3,"title":"Breaking Bad","year":2008,"tvdbId":81189,"path":"/tv/Breaking Bad (2008)"}]`))
	}))
	defer srv.Close()

	client := NewSonarrClient(srv.URL, "test-key", nil)
	s, err := client.LookupSeries(context.Background(), 81189)

	require.NoError(t, err)
	assert.Equal(t, int64(3), s.ID)
	assert.Equal(t, "Breaking Bad", s.Title)
}

func TestSonarr_LookupSeries_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewSonarrClient(srv.URL, "test-key", nil)
	_, err := client.LookupSeries(context.Background(), 1)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSonarr_ListEpisodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/episode", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("seriesId"))
		_, _ = w.Write([]byte(`[
			{"id":70,"seasonNumber":1,"episodeNumber":1,"hasFile":true},
			{"id":71,"seasonNumber":1,"episodeNumber":2,"hasFile":false}
		]`))
	}))
	defer srv.Close()

	client := NewSonarrClient(srv.URL, "test-key", nil)
	eps, err := client.ListEpisodes(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, eps, 2)
	assert.True(t, eps[0].HasFile)
	assert.Equal(t, 2, eps[1].EpisodeNumber)
}

func TestSonarr_MonitorEpisodes(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v3/episode/monitor", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	client := NewSonarrClient(srv.URL, "test-key", nil)
	require.NoError(t, client.MonitorEpisodes(context.Background(), []int64{71, 72}, true))

	assert.Equal(t, true, got["monitored"])
	assert.Equal(t, []any{float64(71), float64(72)}, got["episodeIds"])
}

func TestSonarr_MonitorEpisodes_EmptyIsNoOp(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewSonarrClient(srv.URL, "test-key", nil)
	require.NoError(t, client.MonitorEpisodes(context.Background(), nil, true))
	require.NoError(t, client.SearchEpisodes(context.Background(), nil))
	assert.False(t, called)
}

func TestSonarr_SearchEpisodes(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/command", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewSonarrClient(srv.URL, "test-key", nil)
	require.NoError(t, client.SearchEpisodes(context.Background(), []int64{71}))

	assert.Equal(t, "EpisodeSearch", got["name"])
}
