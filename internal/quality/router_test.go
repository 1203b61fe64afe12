package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/holdarr/internal/monitor"
)

func testConfig() Config {
	return Config{
		Movie:       Route{BackendURL: "http://radarr:7878", APIKey: "std", LibraryRoot: "/data/movies"},
		MovieHigh:   Route{BackendURL: "http://radarr4k:7879", APIKey: "high", LibraryRoot: "/data/movies-4k"},
		Episode:     Route{BackendURL: "http://sonarr:8989", APIKey: "std", LibraryRoot: "/data/tv"},
		EpisodeHigh: Route{BackendURL: "http://sonarr4k:8990", APIKey: "high", LibraryRoot: "/data/tv-4k"},
	}
}

func TestRouter_TierByPath(t *testing.T) {
	r := NewRouter(testConfig())

	tests := []struct {
		path string
		want monitor.Tier
	}{
		{"/data/movies/Fight Club (1999)/Fight Club (1999).mkv", monitor.TierStandard},
		{"/data/movies-4k/Fight Club (1999)/Fight Club (1999).mkv", monitor.TierHigh},
		{"/data/tv/Show (2020)/Season 01/e1.mkv", monitor.TierStandard},
		{"/data/tv-4k/Show (2020)/Season 01/e1.mkv", monitor.TierHigh},
		{"/data/movies-4k-other/file.mkv", monitor.TierStandard}, // prefix must be path-segment aligned
		{"", monitor.TierStandard},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Tier(tt.path, 0), "path %q", tt.path)
	}
}

func TestRouter_TierBySourcePort(t *testing.T) {
	r := NewRouter(testConfig())

	assert.Equal(t, monitor.TierHigh, r.Tier("", 7879))
	assert.Equal(t, monitor.TierHigh, r.Tier("", 8990))
	assert.Equal(t, monitor.TierStandard, r.Tier("", 7878))
	assert.Equal(t, monitor.TierStandard, r.Tier("", 12345))
}

func TestRouter_PortBeatsPath(t *testing.T) {
	r := NewRouter(testConfig())
	got := r.Tier("/data/movies/Fight Club (1999)/f.mkv", 7879)
	assert.Equal(t, monitor.TierHigh, got, "source port identifies the backend regardless of path")
}

func TestRouter_Route(t *testing.T) {
	r := NewRouter(testConfig())

	route, ok := r.Route(monitor.KindMovie, monitor.TierHigh)
	require.True(t, ok)
	assert.Equal(t, "http://radarr4k:7879", route.BackendURL)

	route, ok = r.Route(monitor.KindEpisode, monitor.TierStandard)
	require.True(t, ok)
	assert.Equal(t, "http://sonarr:8989", route.BackendURL)
}

func TestRouter_HighFallsBackToStandard(t *testing.T) {
	cfg := testConfig()
	cfg.MovieHigh = Route{}
	cfg.EpisodeHigh = Route{}
	r := NewRouter(cfg)

	assert.False(t, r.HasHigh())

	route, ok := r.Route(monitor.KindMovie, monitor.TierHigh)
	require.True(t, ok)
	assert.Equal(t, "http://radarr:7878", route.BackendURL)

	assert.Equal(t, monitor.TierStandard, r.Tier("/data/movies-4k/f.mkv", 0),
		"no high config means nothing classifies as high")
}

func TestRouter_DefaultSchemePorts(t *testing.T) {
	cfg := Config{
		Movie:     Route{BackendURL: "http://radarr"},
		MovieHigh: Route{BackendURL: "https://radarr4k"},
	}
	r := NewRouter(cfg)

	assert.Equal(t, monitor.TierHigh, r.Tier("", 443))
	assert.Equal(t, monitor.TierStandard, r.Tier("", 80))
}
