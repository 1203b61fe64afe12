// Package monitor tracks media units awaiting acquisition and drives their
// status lifecycle by polling download backend queues.
package monitor

import (
	"fmt"
	"time"
)

// Kind is the media kind of a monitored unit.
type Kind string

const (
	KindMovie   Kind = "movie"
	KindEpisode Kind = "episode"
)

// Tier selects the standard or high-quality backend instance.
// Fixed at insertion, never changes for the lifetime of a unit.
type Tier string

const (
	TierStandard Tier = "standard"
	TierHigh     Tier = "high"
)

// Identity is the registry key for a monitored unit. Movies are keyed by
// TMDB id; episodes by TVDB series id plus season and episode numbers.
type Identity struct {
	Kind      Kind
	ContentID int64 // TMDB id (movies only)
	SeriesID  int64 // TVDB id (episodes only)
	Season    int
	Episode   int
}

// MovieIdentity builds the identity for a movie.
func MovieIdentity(tmdbID int64) Identity {
	return Identity{Kind: KindMovie, ContentID: tmdbID}
}

// EpisodeIdentity builds the identity for a single episode.
func EpisodeIdentity(tvdbID int64, season, episode int) Identity {
	return Identity{Kind: KindEpisode, SeriesID: tvdbID, Season: season, Episode: episode}
}

func (id Identity) String() string {
	if id.Kind == KindEpisode {
		return fmt.Sprintf("episode/%d/S%02dE%02d", id.SeriesID, id.Season, id.Episode)
	}
	return fmt.Sprintf("movie/%d", id.ContentID)
}

// Unit is one tracked piece of media: a movie or a single episode that has a
// placeholder on disk and is waiting for the real file.
type Unit struct {
	Identity   Identity
	BackendRef int64  // Radarr movie id / Sonarr episode id, used for queue correlation
	Title      string // human title surfaced in status updates
	Year       int    // release year, used for placeholder path reconstruction
	RatingKey  string // catalog key for title renames
	Tier       Tier

	State    State
	Progress int // 0-100, meaningful while downloading

	StartedAt        time.Time
	LastTransitionAt time.Time
	Attempts         int
	Retrying         bool
}
