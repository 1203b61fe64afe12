package webhook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlexPayload_IsPlay(t *testing.T) {
	tests := []struct {
		event string
		want  bool
	}{
		{"media.play", true},
		{"media.resume", true},
		{"playback.start", true},
		{"playback.started", true},
		{"media.pause", false},
		{"media.stop", false},
		{"media.scrobble", false},
		{"", false},
	}
	for _, tt := range tests {
		p := plexPayload{Event: tt.event}
		assert.Equal(t, tt.want, p.isPlay(), "event %q", tt.event)
	}
}

func TestPlexPayload_ExternalID_ModernGUID(t *testing.T) {
	var p plexPayload
	require.NoError(t, json.Unmarshal([]byte(`{
		"event": "media.play",
		"Metadata": {
			"type": "movie",
			"title": "Fight Club",
			"Guid": [
				{"id": "imdb://tt0137523"},
				{"id": "tmdb://550"},
				{"id": "tvdb://290"}
			]
		}
	}`), &p))

	id, ok := p.externalID("tmdb")
	require.True(t, ok)
	assert.Equal(t, int64(550), id)
}

func TestPlexPayload_ExternalID_LegacyAgent(t *testing.T) {
	p := plexPayload{}
	p.Metadata.GUID = "com.plexapp.agents.themoviedb://550?lang=en"

	id, ok := p.externalID("tmdb")
	require.True(t, ok)
	assert.Equal(t, int64(550), id)
}

func TestPlexPayload_ExternalID_Missing(t *testing.T) {
	p := plexPayload{}
	p.Metadata.GUID = "plex://movie/5d776b59ad5437001f79c6f8"

	_, ok := p.externalID("tmdb")
	assert.False(t, ok)
}

func TestPlexPayload_SeriesID_GrandparentLegacy(t *testing.T) {
	p := plexPayload{}
	p.Metadata.GrandparentGUID = "com.plexapp.agents.thetvdb://81189?lang=en"

	id, ok := p.seriesID("tvdb")
	require.True(t, ok)
	assert.Equal(t, int64(81189), id)
}

func TestPlexPayload_SeriesID_GrandparentModern(t *testing.T) {
	p := plexPayload{}
	p.Metadata.GrandparentGUID = "tvdb://81189"

	id, ok := p.seriesID("tvdb")
	require.True(t, ok)
	assert.Equal(t, int64(81189), id)
}

func TestPlexPayload_SeriesID_EpisodeGUIDFallback(t *testing.T) {
	// Legacy episode guids embed the series id before season/episode.
	p := plexPayload{}
	p.Metadata.GUID = "com.plexapp.agents.thetvdb://81189/1/7?lang=en"

	id, ok := p.seriesID("tvdb")
	require.True(t, ok)
	assert.Equal(t, int64(81189), id)
}

func TestPlexPayload_FilePath(t *testing.T) {
	var p plexPayload
	require.NoError(t, json.Unmarshal([]byte(`{
		"Metadata": {
			"Media": [{"Part": [{"file": "/data/movies-4k/Dune (2021)/Dune (2021).mkv"}]}]
		}
	}`), &p))
	assert.Equal(t, "/data/movies-4k/Dune (2021)/Dune (2021).mkv", p.filePath())

	empty := plexPayload{}
	assert.Empty(t, empty.filePath())
}

func TestArrPayload_Decode(t *testing.T) {
	var p arrPayload
	require.NoError(t, json.Unmarshal([]byte(`{
		"eventType": "Download",
		"series": {"id": 5, "tvdbId": 81189, "title": "Breaking Bad", "year": 2008, "path": "/data/tv/Breaking Bad"},
		"episodes": [{"id": 101, "seasonNumber": 1, "episodeNumber": 7}]
	}`), &p))

	assert.Equal(t, "Download", p.EventType)
	assert.Nil(t, p.Movie)
	require.NotNil(t, p.Series)
	assert.Equal(t, int64(81189), p.Series.TvdbID)
	require.Len(t, p.Episodes, 1)
	assert.Equal(t, 7, p.Episodes[0].EpisodeNumber)
}
