// Package webhook is the HTTP surface of the daemon: playback and library
// webhooks from Plex/Tautulli and Radarr/Sonarr, plus the small JSON API the
// CLI consumes.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/vmunix/holdarr/internal/arr"
	"github.com/vmunix/holdarr/internal/events"
	"github.com/vmunix/holdarr/internal/monitor"
	"github.com/vmunix/holdarr/internal/placeholder"
	"github.com/vmunix/holdarr/internal/quality"
)

// MovieBackend is the slice of the Radarr client playback handling needs.
type MovieBackend interface {
	LookupMovie(ctx context.Context, tmdbID int64) (arr.Movie, error)
	SearchMovie(ctx context.Context, movieID int64) error
}

// SeriesBackend is the slice of the Sonarr client playback handling needs.
type SeriesBackend interface {
	LookupSeries(ctx context.Context, tvdbID int64) (arr.Series, error)
	ListEpisodes(ctx context.Context, seriesID int64) ([]arr.Episode, error)
	MonitorEpisodes(ctx context.Context, episodeIDs []int64, monitored bool) error
	SearchEpisodes(ctx context.Context, episodeIDs []int64) error
}

// CatalogRefresher triggers a partial catalog rescan after placeholders are
// removed, so stale entries disappear promptly.
type CatalogRefresher interface {
	RefreshSection(ctx context.Context, sectionID int, path string) error
}

// Config tunes playback handling.
type Config struct {
	Lookahead       int
	IncludeSpecials bool
	PlayMode        string // episode, season, series
}

// Server handles all inbound HTTP.
type Server struct {
	reg          *monitor.Registry
	router       *quality.Router
	movies       map[monitor.Tier]MovieBackend
	series       map[monitor.Tier]SeriesBackend
	placeholders *placeholder.Manager
	bus          *events.Bus
	eventLog     *events.EventLog
	cfg          Config
	log          *slog.Logger

	catalog      CatalogRefresher // optional
	movieSection int
	tvSection    int
}

// SetCatalog installs the catalog rescan hook used after placeholder
// deletions. Optional; without it deletions skip the rescan.
func (s *Server) SetCatalog(c CatalogRefresher, movieSection, tvSection int) {
	s.catalog = c
	s.movieSection = movieSection
	s.tvSection = tvSection
}

func (s *Server) refreshCatalog(ctx context.Context, section int, path string) {
	if s.catalog == nil || section == 0 {
		return
	}
	if err := s.catalog.RefreshSection(ctx, section, path); err != nil {
		s.log.Warn("section refresh failed", "section", section, "error", err)
	}
}

// NewServer creates the webhook server. eventLog may be nil; the recent
// events endpoint then reports unavailable.
func NewServer(
	reg *monitor.Registry,
	router *quality.Router,
	movies map[monitor.Tier]MovieBackend,
	series map[monitor.Tier]SeriesBackend,
	placeholders *placeholder.Manager,
	bus *events.Bus,
	eventLog *events.EventLog,
	cfg Config,
	log *slog.Logger,
) *Server {
	if log == nil {
		log = slog.Default()
	}
	if cfg.PlayMode == "" {
		cfg.PlayMode = "episode"
	}
	return &Server{
		reg:          reg,
		router:       router,
		movies:       movies,
		series:       series,
		placeholders: placeholders,
		bus:          bus,
		eventLog:     eventLog,
		cfg:          cfg,
		log:          log.With("component", "webhook"),
	}
}

// Routes builds the HTTP router.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(s.log))
	r.HandleFunc("/webhook", s.handleWebhook).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/monitor", s.handleMonitorList).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/events/recent", s.handleRecentEvents).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

// handleWebhook dispatches on payload shape: arr payloads carry eventType,
// Plex/Tautulli payloads carry event.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "read body")
		return
	}

	sourcePort := queryInt(r, "source_port", 0)

	var probe struct {
		EventType string `json:"eventType"`
	}
	_ = json.Unmarshal(body, &probe)
	if probe.EventType != "" {
		s.handleArrEvent(w, r.Context(), body, sourcePort)
		return
	}
	s.handlePlexEvent(w, r.Context(), body, sourcePort)
}

func (s *Server) handlePlexEvent(w http.ResponseWriter, ctx context.Context, body []byte, sourcePort int) {
	var p plexPayload
	if err := json.Unmarshal(body, &p); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload")
		return
	}
	if !p.isPlay() {
		writeJSON(w, http.StatusOK, statusResponse{Status: "ignored"})
		return
	}

	switch p.Metadata.Type {
	case "movie":
		s.handleMoviePlay(w, ctx, &p, sourcePort)
	case "episode":
		s.handleEpisodePlay(w, ctx, &p, sourcePort)
	default:
		writeJSON(w, http.StatusOK, statusResponse{Status: "ignored"})
	}
}

func (s *Server) handleMoviePlay(w http.ResponseWriter, ctx context.Context, p *plexPayload, sourcePort int) {
	tmdbID, ok := p.externalID("tmdb")
	if !ok {
		s.log.Debug("movie play without tmdb guid", "title", p.Metadata.Title)
		writeJSON(w, http.StatusOK, statusResponse{Status: "ignored"})
		return
	}

	tier := s.router.Tier(p.filePath(), sourcePort)
	backend := s.movieBackend(tier)
	if backend == nil {
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "no movie backend configured")
		return
	}

	id := monitor.MovieIdentity(tmdbID)
	if _, tracked := s.reg.Get(id); tracked {
		writeJSON(w, http.StatusOK, statusResponse{Status: "already_monitored"})
		return
	}

	m, err := backend.LookupMovie(ctx, tmdbID)
	if err != nil {
		s.log.Warn("movie lookup failed", "tmdb_id", tmdbID, "error", err)
		writeError(w, http.StatusBadGateway, "BACKEND_ERROR", err.Error())
		return
	}
	if m.HasFile {
		writeJSON(w, http.StatusOK, statusResponse{Status: "already_available"})
		return
	}

	if err := backend.SearchMovie(ctx, m.ID); err != nil {
		s.log.Warn("movie search failed", "tmdb_id", tmdbID, "error", err)
		writeError(w, http.StatusBadGateway, "BACKEND_ERROR", err.Error())
		return
	}

	s.reg.Add(monitor.Unit{
		Identity:   id,
		BackendRef: m.ID,
		Title:      m.Title,
		Year:       m.Year,
		RatingKey:  p.Metadata.RatingKey,
		Tier:       tier,
	})
	s.log.Info("movie play triggered acquisition", "title", m.Title, "tmdb_id", tmdbID, "tier", tier)
	writeJSON(w, http.StatusOK, statusResponse{Status: "monitoring"})
}

func (s *Server) handleEpisodePlay(w http.ResponseWriter, ctx context.Context, p *plexPayload, sourcePort int) {
	tvdbID, ok := p.seriesID("tvdb")
	if !ok {
		s.log.Debug("episode play without tvdb guid", "title", p.Metadata.GrandparentTitle)
		writeJSON(w, http.StatusOK, statusResponse{Status: "ignored"})
		return
	}
	playedSeason := p.Metadata.ParentIndex
	playedEpisode := p.Metadata.Index

	tier := s.router.Tier(p.filePath(), sourcePort)
	backend := s.seriesBackend(tier)
	if backend == nil {
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "no series backend configured")
		return
	}

	sr, err := backend.LookupSeries(ctx, tvdbID)
	if err != nil {
		s.log.Warn("series lookup failed", "tvdb_id", tvdbID, "error", err)
		writeError(w, http.StatusBadGateway, "BACKEND_ERROR", err.Error())
		return
	}
	eps, err := backend.ListEpisodes(ctx, sr.ID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "BACKEND_ERROR", err.Error())
		return
	}

	infos := make([]monitor.EpisodeInfo, 0, len(eps))
	for _, e := range eps {
		infos = append(infos, monitor.EpisodeInfo{
			Season:    e.SeasonNumber,
			Episode:   e.EpisodeNumber,
			HasFile:   e.HasFile,
			BackendID: e.ID,
		})
	}

	window := s.selectWindow(infos, playedSeason, playedEpisode)
	if window.ReachedSeriesEnd {
		// The window ran into the end of the known series: widen to every
		// remaining file-less episode so the whole series gets picked up, not
		// just the tail the window happened to cover.
		window = monitor.ComputeLookahead(infos, 0, 0, len(infos), s.cfg.IncludeSpecials)
	}
	if len(window.Episodes) == 0 {
		writeJSON(w, http.StatusOK, episodesResponse{
			Status:           "nothing_to_monitor",
			ReachedSeriesEnd: window.ReachedSeriesEnd,
		})
		return
	}

	ids := make([]int64, 0, len(window.Episodes))
	for _, e := range window.Episodes {
		ids = append(ids, e.BackendID)
	}
	if err := backend.MonitorEpisodes(ctx, ids, true); err != nil {
		writeError(w, http.StatusBadGateway, "BACKEND_ERROR", err.Error())
		return
	}
	if err := backend.SearchEpisodes(ctx, ids); err != nil {
		writeError(w, http.StatusBadGateway, "BACKEND_ERROR", err.Error())
		return
	}

	added := 0
	for _, e := range window.Episodes {
		ratingKey := ""
		if e.Season == playedSeason && e.Episode == playedEpisode {
			ratingKey = p.Metadata.RatingKey
		}
		if s.reg.Add(monitor.Unit{
			Identity:   monitor.EpisodeIdentity(tvdbID, e.Season, e.Episode),
			BackendRef: e.BackendID,
			Title:      fmt.Sprintf("%s - S%02dE%02d", sr.Title, e.Season, e.Episode),
			Year:       sr.Year,
			RatingKey:  ratingKey,
			Tier:       tier,
		}) {
			added++
		}
	}

	s.log.Info("episode play triggered acquisition",
		"series", sr.Title, "played", fmt.Sprintf("S%02dE%02d", playedSeason, playedEpisode),
		"mode", s.cfg.PlayMode, "episodes", added, "series_end", window.ReachedSeriesEnd)
	writeJSON(w, http.StatusOK, episodesResponse{
		Status:           "monitoring",
		Episodes:         added,
		ReachedSeriesEnd: window.ReachedSeriesEnd,
	})
}

func (s *Server) handleArrEvent(w http.ResponseWriter, ctx context.Context, body []byte, sourcePort int) {
	var p arrPayload
	if err := json.Unmarshal(body, &p); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload")
		return
	}

	switch p.EventType {
	case "Test":
		writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
	case "Download":
		s.handleImported(w, &p)
	case "MovieAdded":
		s.handleMovieAdded(w, ctx, &p, sourcePort)
	case "MovieFileDelete":
		s.handleMovieAdded(w, ctx, &p, sourcePort) // recreate the placeholder
	case "SeriesAdd":
		s.handleSeriesAdded(w, ctx, &p, sourcePort)
	case "EpisodeFileDelete":
		s.handleEpisodeFileDelete(w, ctx, &p, sourcePort)
	case "MovieDelete":
		s.handleMovieDelete(w, ctx, &p, sourcePort)
	case "SeriesDelete":
		s.handleSeriesDelete(w, ctx, &p, sourcePort)
	default:
		writeJSON(w, http.StatusOK, statusResponse{Status: "ignored"})
	}
}

// handleImported confirms availability ahead of the next poll cycle when the
// backend reports a completed import.
func (s *Server) handleImported(w http.ResponseWriter, p *arrPayload) {
	confirmed := 0
	if p.Movie != nil {
		if s.reg.UpdateStatus(monitor.MovieIdentity(p.Movie.TmdbID), monitor.StateAvailable, 100) {
			confirmed++
		}
	}
	if p.Series != nil {
		for _, e := range p.Episodes {
			id := monitor.EpisodeIdentity(p.Series.TvdbID, e.SeasonNumber, e.EpisodeNumber)
			if s.reg.UpdateStatus(id, monitor.StateAvailable, 100) {
				confirmed++
			}
		}
	}
	writeJSON(w, http.StatusOK, importResponse{Status: "ok", Confirmed: confirmed})
}

func (s *Server) handleMovieAdded(w http.ResponseWriter, ctx context.Context, p *arrPayload, sourcePort int) {
	if p.Movie == nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "movie payload missing")
		return
	}
	tier := s.router.Tier(p.Movie.FolderPath, sourcePort)
	route, ok := s.router.Route(monitor.KindMovie, tier)
	if !ok || route.LibraryRoot == "" {
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "no movie library configured")
		return
	}

	path, err := s.placeholders.CreateMovie(route.LibraryRoot, p.Movie.Title, p.Movie.Year, p.Movie.TmdbID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "PLACEHOLDER_ERROR", err.Error())
		return
	}
	s.publishPlaceholderCreated(ctx, monitor.MovieIdentity(p.Movie.TmdbID).String(), p.Movie.ID, path)
	writeJSON(w, http.StatusOK, placeholderResponse{Status: "created", Placeholders: 1})
}

func (s *Server) handleSeriesAdded(w http.ResponseWriter, ctx context.Context, p *arrPayload, sourcePort int) {
	if p.Series == nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "series payload missing")
		return
	}
	tier := s.router.Tier(p.Series.Path, sourcePort)
	route, ok := s.router.Route(monitor.KindEpisode, tier)
	if !ok || route.LibraryRoot == "" {
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "no series library configured")
		return
	}
	backend := s.seriesBackend(tier)
	if backend == nil {
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "no series backend configured")
		return
	}

	eps, err := backend.ListEpisodes(ctx, p.Series.ID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "BACKEND_ERROR", err.Error())
		return
	}

	created := 0
	for _, e := range eps {
		if e.HasFile {
			continue
		}
		if e.SeasonNumber == 0 && !s.cfg.IncludeSpecials {
			continue
		}
		path, err := s.placeholders.CreateEpisode(
			route.LibraryRoot, p.Series.Title, p.Series.Year, p.Series.TvdbID,
			e.SeasonNumber, e.EpisodeNumber)
		if err != nil {
			s.log.Warn("placeholder create failed",
				"series", p.Series.Title, "season", e.SeasonNumber, "episode", e.EpisodeNumber, "error", err)
			continue
		}
		key := monitor.EpisodeIdentity(p.Series.TvdbID, e.SeasonNumber, e.EpisodeNumber).String()
		s.publishPlaceholderCreated(ctx, key, e.ID, path)
		created++
	}
	s.log.Info("series placeholders created", "series", p.Series.Title, "count", created)
	writeJSON(w, http.StatusOK, placeholderResponse{Status: "created", Placeholders: created})
}

func (s *Server) handleEpisodeFileDelete(w http.ResponseWriter, ctx context.Context, p *arrPayload, sourcePort int) {
	if p.Series == nil || len(p.Episodes) == 0 {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "episode payload missing")
		return
	}
	tier := s.router.Tier(p.Series.Path, sourcePort)
	route, ok := s.router.Route(monitor.KindEpisode, tier)
	if !ok || route.LibraryRoot == "" {
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "no series library configured")
		return
	}

	created := 0
	for _, e := range p.Episodes {
		path, err := s.placeholders.CreateEpisode(
			route.LibraryRoot, p.Series.Title, p.Series.Year, p.Series.TvdbID,
			e.SeasonNumber, e.EpisodeNumber)
		if err != nil {
			s.log.Warn("placeholder recreate failed", "series", p.Series.Title, "error", err)
			continue
		}
		key := monitor.EpisodeIdentity(p.Series.TvdbID, e.SeasonNumber, e.EpisodeNumber).String()
		s.publishPlaceholderCreated(ctx, key, e.ID, path)
		created++
	}
	writeJSON(w, http.StatusOK, placeholderResponse{Status: "created", Placeholders: created})
}

// handleMovieDelete tears down everything held for a movie removed from the
// backend: its placeholder, its monitoring entry, and its catalog listing.
func (s *Server) handleMovieDelete(w http.ResponseWriter, ctx context.Context, p *arrPayload, sourcePort int) {
	if p.Movie == nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "movie payload missing")
		return
	}
	tier := s.router.Tier(p.Movie.FolderPath, sourcePort)
	route, ok := s.router.Route(monitor.KindMovie, tier)
	if !ok || route.LibraryRoot == "" {
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "no movie library configured")
		return
	}

	id := monitor.MovieIdentity(p.Movie.TmdbID)
	if err := s.placeholders.DeleteMovie(route.LibraryRoot, p.Movie.Title, p.Movie.Year, p.Movie.TmdbID); err != nil {
		// Folder may already be gone; the registry entry still has to go.
		s.log.Warn("placeholder delete failed", "movie", p.Movie.Title, "error", err)
	} else {
		s.publishPlaceholderDeleted(ctx, id.String(), p.Movie.ID)
	}
	s.reg.Remove(id)
	s.refreshCatalog(ctx, s.movieSection, route.LibraryRoot)

	s.log.Info("movie deleted", "title", p.Movie.Title, "tmdb_id", p.Movie.TmdbID)
	writeJSON(w, http.StatusOK, statusResponse{Status: "deleted"})
}

// handleSeriesDelete removes every placeholder under the series folder and
// drops all of the series' episodes from monitoring.
func (s *Server) handleSeriesDelete(w http.ResponseWriter, ctx context.Context, p *arrPayload, sourcePort int) {
	if p.Series == nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "series payload missing")
		return
	}
	tier := s.router.Tier(p.Series.Path, sourcePort)
	route, ok := s.router.Route(monitor.KindEpisode, tier)
	if !ok || route.LibraryRoot == "" {
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "no series library configured")
		return
	}

	if err := s.placeholders.DeleteSeries(route.LibraryRoot, p.Series.Title, p.Series.TvdbID); err != nil {
		s.log.Warn("placeholder delete failed", "series", p.Series.Title, "error", err)
	} else {
		s.publishPlaceholderDeleted(ctx, fmt.Sprintf("series/%d", p.Series.TvdbID), p.Series.ID)
	}

	removed := 0
	for _, u := range s.reg.Snapshot() {
		if u.Identity.Kind == monitor.KindEpisode && u.Identity.SeriesID == p.Series.TvdbID {
			if _, ok := s.reg.Remove(u.Identity); ok {
				removed++
			}
		}
	}
	s.refreshCatalog(ctx, s.tvSection, route.LibraryRoot)

	s.log.Info("series deleted", "series", p.Series.Title, "tvdb_id", p.Series.TvdbID, "units_removed", removed)
	writeJSON(w, http.StatusOK, statusResponse{Status: "deleted"})
}

func (s *Server) publishPlaceholderDeleted(ctx context.Context, key string, entityID int64) {
	if s.bus == nil {
		return
	}
	_ = s.bus.Publish(ctx, &events.PlaceholderDeleted{
		BaseEvent: events.NewBaseEvent(events.EventPlaceholderDeleted, events.EntityPlaceholder, entityID),
		Key:       key,
	})
}

func (s *Server) publishPlaceholderCreated(ctx context.Context, key string, entityID int64, path string) {
	if s.bus == nil {
		return
	}
	_ = s.bus.Publish(ctx, &events.PlaceholderCreated{
		BaseEvent: events.NewBaseEvent(events.EventPlaceholderCreated, events.EntityPlaceholder, entityID),
		Key:       key,
		Path:      path,
	})
}

func (s *Server) movieBackend(tier monitor.Tier) MovieBackend {
	if b, ok := s.movies[tier]; ok {
		return b
	}
	return s.movies[monitor.TierStandard]
}

func (s *Server) seriesBackend(tier monitor.Tier) SeriesBackend {
	if b, ok := s.series[tier]; ok {
		return b
	}
	return s.series[monitor.TierStandard]
}

// API endpoints

type monitorItem struct {
	Key       string    `json:"key"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	Display   string    `json:"display"`
	Progress  int       `json:"progress"`
	Tier      string    `json:"tier"`
	StartedAt time.Time `json:"started_at"`
	Attempts  int       `json:"attempts"`
}

func (s *Server) handleMonitorList(w http.ResponseWriter, r *http.Request) {
	units := s.reg.Snapshot()
	items := make([]monitorItem, 0, len(units))
	for _, u := range units {
		items = append(items, monitorItem{
			Key:       u.Identity.String(),
			Title:     u.Title,
			State:     string(u.State),
			Display:   u.State.Display(u.Progress),
			Progress:  u.Progress,
			Tier:      string(u.Tier),
			StartedAt: u.StartedAt,
			Attempts:  u.Attempts,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	writeJSON(w, http.StatusOK, monitorListResponse{Items: items, Total: len(items)})
}

type eventItem struct {
	ID         int64           `json:"id"`
	Type       string          `json:"type"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func (s *Server) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	if s.eventLog == nil {
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "event log not configured")
		return
	}
	limit := queryInt(r, "limit", 50)
	raw, err := s.eventLog.Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	items := make([]eventItem, 0, len(raw))
	for _, e := range raw {
		items = append(items, eventItem{
			ID:         e.ID,
			Type:       e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Payload:    json.RawMessage(e.Payload),
			OccurredAt: e.OccurredAt,
		})
	}
	writeJSON(w, http.StatusOK, eventListResponse{Items: items, Total: len(items)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// Response types

type statusResponse struct {
	Status string `json:"status"`
}

type episodesResponse struct {
	Status           string `json:"status"`
	Episodes         int    `json:"episodes,omitempty"`
	ReachedSeriesEnd bool   `json:"reached_series_end"`
}

type importResponse struct {
	Status    string `json:"status"`
	Confirmed int    `json:"confirmed"`
}

type placeholderResponse struct {
	Status       string `json:"status"`
	Placeholders int    `json:"placeholders"`
}

type monitorListResponse struct {
	Items []monitorItem `json:"items"`
	Total int           `json:"total"`
}

type eventListResponse struct {
	Items []eventItem `json:"items"`
	Total int         `json:"total"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
