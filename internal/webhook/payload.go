package webhook

import (
	"regexp"
	"strconv"
	"strings"
)

// plexPayload is a Plex or Tautulli webhook body, reduced to what playback
// handling needs.
type plexPayload struct {
	Event    string `json:"event"`
	Metadata struct {
		Type                 string `json:"type"` // movie or episode
		Title                string `json:"title"`
		GrandparentTitle     string `json:"grandparentTitle"`
		RatingKey            string `json:"ratingKey"`
		GrandparentRatingKey string `json:"grandparentRatingKey"`
		ParentIndex          int    `json:"parentIndex"` // season
		Index                int    `json:"index"`       // episode
		Year                 int    `json:"year"`
		GUID                 string `json:"guid"`
		GUIDs                []struct {
			ID string `json:"id"`
		} `json:"Guid"`
		GrandparentGUID string `json:"grandparentGuid"`
		Media           []struct {
			Part []struct {
				File string `json:"file"`
			} `json:"Part"`
		} `json:"Media"`
	} `json:"Metadata"`
}

// playEvents are the webhook events that count as a playback start.
var playEvents = map[string]bool{
	"media.play":       true,
	"media.resume":     true,
	"playback.start":   true, // Tautulli
	"playback.started": true,
}

func (p *plexPayload) isPlay() bool { return playEvents[p.Event] }

func (p *plexPayload) filePath() string {
	if len(p.Metadata.Media) > 0 && len(p.Metadata.Media[0].Part) > 0 {
		return p.Metadata.Media[0].Part[0].File
	}
	return ""
}

// externalID extracts an id for one scheme from the metadata guids, checking
// both the modern Guid array ("tmdb://550") and the legacy agent guid
// ("com.plexapp.agents.themoviedb://550?lang=en").
func (p *plexPayload) externalID(scheme string) (int64, bool) {
	for _, g := range p.Metadata.GUIDs {
		if id, ok := parseGUID(g.ID, scheme); ok {
			return id, true
		}
	}
	if id, ok := parseLegacyGUID(p.Metadata.GUID, scheme); ok {
		return id, true
	}
	return 0, false
}

// seriesID extracts the series-level id for an episode play. Episode
// metadata carries the series id in the grandparent guid.
func (p *plexPayload) seriesID(scheme string) (int64, bool) {
	if id, ok := parseLegacyGUID(p.Metadata.GrandparentGUID, scheme); ok {
		return id, true
	}
	if id, ok := parseGUID(p.Metadata.GrandparentGUID, scheme); ok {
		return id, true
	}
	// Legacy agent episode guids embed the series id:
	// com.plexapp.agents.thetvdb://81189/1/7?lang=en
	return parseLegacyGUID(p.Metadata.GUID, scheme)
}

func parseGUID(guid, scheme string) (int64, bool) {
	prefix := scheme + "://"
	if !strings.HasPrefix(guid, prefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(guid, prefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

var legacyAgents = map[string]*regexp.Regexp{
	"tmdb": regexp.MustCompile(`^com\.plexapp\.agents\.themoviedb://(\d+)`),
	"tvdb": regexp.MustCompile(`^com\.plexapp\.agents\.thetvdb://(\d+)`),
}

func parseLegacyGUID(guid, scheme string) (int64, bool) {
	re, ok := legacyAgents[scheme]
	if !ok || guid == "" {
		return 0, false
	}
	m := re.FindStringSubmatch(guid)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// arrPayload is a Radarr or Sonarr webhook body.
type arrPayload struct {
	EventType string `json:"eventType"` // Test, Download, MovieAdded, SeriesAdd, ...
	Movie     *struct {
		ID         int64  `json:"id"`
		TmdbID     int64  `json:"tmdbId"`
		Title      string `json:"title"`
		Year       int    `json:"year"`
		FolderPath string `json:"folderPath"`
	} `json:"movie"`
	Series *struct {
		ID     int64  `json:"id"`
		TvdbID int64  `json:"tvdbId"`
		Title  string `json:"title"`
		Year   int    `json:"year"`
		Path   string `json:"path"`
	} `json:"series"`
	Episodes []struct {
		ID            int64 `json:"id"`
		SeasonNumber  int   `json:"seasonNumber"`
		EpisodeNumber int   `json:"episodeNumber"`
	} `json:"episodes"`
}
