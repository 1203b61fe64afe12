package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/afero"
	_ "modernc.org/sqlite"

	"github.com/vmunix/holdarr/internal/arr"
	"github.com/vmunix/holdarr/internal/config"
	"github.com/vmunix/holdarr/internal/events"
	"github.com/vmunix/holdarr/internal/migrations"
	"github.com/vmunix/holdarr/internal/monitor"
	"github.com/vmunix/holdarr/internal/placeholder"
	"github.com/vmunix/holdarr/internal/plex"
	"github.com/vmunix/holdarr/internal/quality"
	"github.com/vmunix/holdarr/internal/webhook"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runServer(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	// Ensure database directory exists
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Run migrations
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// === Event plumbing ===
	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger)
	defer bus.Close()

	// === Quality routing ===
	router := quality.NewRouter(qualityConfig(cfg))

	// === Registry and placeholders ===
	reg := monitor.NewRegistry(cfg.Monitor.CleanupDelayDuration(), logger)
	defer reg.Close()

	placeholders := placeholder.NewManager(
		afero.NewOsFs(),
		cfg.Placeholder.DummyPath,
		placeholder.Strategy(cfg.Placeholder.Strategy),
		logger,
	)

	// === Plex client ===
	plexClient := plex.NewClient(cfg.Plex.URL, cfg.Plex.Token, logger)

	// === Backend clients per kind and tier ===
	backends := monitor.Backends{}
	movies := map[monitor.Tier]webhook.MovieBackend{}
	series := map[monitor.Tier]webhook.SeriesBackend{}

	if cfg.Radarr != nil {
		c := arr.NewRadarrClient(cfg.Radarr.URL, cfg.Radarr.APIKey, logger)
		backends[monitor.BackendKey{Kind: monitor.KindMovie, Tier: monitor.TierStandard}] = c
		movies[monitor.TierStandard] = c
	}
	if cfg.Radarr4K != nil {
		c := arr.NewRadarrClient(cfg.Radarr4K.URL, cfg.Radarr4K.APIKey, logger.With("tier", "high"))
		backends[monitor.BackendKey{Kind: monitor.KindMovie, Tier: monitor.TierHigh}] = c
		movies[monitor.TierHigh] = c
	}
	if cfg.Sonarr != nil {
		c := arr.NewSonarrClient(cfg.Sonarr.URL, cfg.Sonarr.APIKey, logger)
		backends[monitor.BackendKey{Kind: monitor.KindEpisode, Tier: monitor.TierStandard}] = c
		series[monitor.TierStandard] = c
	}
	if cfg.Sonarr4K != nil {
		c := arr.NewSonarrClient(cfg.Sonarr4K.URL, cfg.Sonarr4K.APIKey, logger.With("tier", "high"))
		backends[monitor.BackendKey{Kind: monitor.KindEpisode, Tier: monitor.TierHigh}] = c
		series[monitor.TierHigh] = c
	}

	// === Poller ===
	poller := monitor.NewPoller(reg, backends, monitor.PollerConfig{
		Interval:       cfg.Monitor.CheckIntervalDuration(),
		MaxMonitorTime: cfg.Monitor.MaxMonitorDuration(),
		MaxAttempts:    cfg.Monitor.MaxAttempts,
	}, logger)
	reg.SetWake(poller.Wake)

	// Mirror registry activity onto the event bus and tear placeholders down
	// when the real file has arrived.
	bridgeTransitions(bus, reg, cfg.Monitor.MaxAttempts)
	bridgeCleanup(bus, reg, router, placeholders, plexClient, cfg, logger)

	// === Background jobs ===
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := poller.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Error("poller stopped", "error", err)
		}
	}()

	if cfg.Monitor.TitleUpdates == "all" {
		titler := plex.NewTitleUpdater(bus, plexClient, logger)
		go func() {
			if err := titler.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("title updater stopped", "error", err)
			}
		}()
	}

	// === HTTP Setup ===
	hooks := webhook.NewServer(reg, router, movies, series, placeholders, bus, eventLog, webhook.Config{
		Lookahead:       cfg.Monitor.EpisodeLookahead,
		IncludeSpecials: cfg.Monitor.IncludeSpecials,
		PlayMode:        cfg.Monitor.PlayMode,
	}, logger)
	hooks.SetCatalog(plexClient, cfg.Plex.MovieSection, cfg.Plex.TVSection)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"database", cfg.Database.Path,
		"radarr", cfg.Radarr != nil,
		"radarr_4k", cfg.Radarr4K != nil,
		"sonarr", cfg.Sonarr != nil,
		"sonarr_4k", cfg.Sonarr4K != nil,
		"play_mode", cfg.Monitor.PlayMode,
		"title_updates", cfg.Monitor.TitleUpdates,
		"log_level", cfg.Server.LogLevel,
	)

	srv := &http.Server{Addr: addr, Handler: hooks.Routes()}

	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig.String())

	// Cancel background jobs (poller and title updater)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func qualityConfig(cfg *config.Config) quality.Config {
	var qc quality.Config
	if cfg.Radarr != nil {
		qc.Movie = quality.Route{BackendURL: cfg.Radarr.URL, APIKey: cfg.Radarr.APIKey, LibraryRoot: cfg.Libraries.MovieRoot}
	}
	if cfg.Radarr4K != nil {
		qc.MovieHigh = quality.Route{BackendURL: cfg.Radarr4K.URL, APIKey: cfg.Radarr4K.APIKey, LibraryRoot: cfg.Libraries.Movie4KRoot}
	}
	if cfg.Sonarr != nil {
		qc.Episode = quality.Route{BackendURL: cfg.Sonarr.URL, APIKey: cfg.Sonarr.APIKey, LibraryRoot: cfg.Libraries.TVRoot}
	}
	if cfg.Sonarr4K != nil {
		qc.EpisodeHigh = quality.Route{BackendURL: cfg.Sonarr4K.URL, APIKey: cfg.Sonarr4K.APIKey, LibraryRoot: cfg.Libraries.TV4KRoot}
	}
	return qc
}

// bridgeTransitions publishes registry transitions as bus events.
func bridgeTransitions(bus *events.Bus, reg *monitor.Registry, maxAttempts int) {
	reg.OnTransition(func(t monitor.TransitionEvent) {
		ctx := context.Background()
		key := t.Unit.Identity.String()

		if t.From == "" {
			_ = bus.Publish(ctx, &events.UnitAdded{
				BaseEvent: events.NewBaseEvent(events.EventUnitAdded, events.EntityUnit, t.Unit.BackendRef),
				Key:       key,
				Title:     t.Unit.Title,
				RatingKey: t.Unit.RatingKey,
				Tier:      string(t.Unit.Tier),
			})
			return
		}

		_ = bus.Publish(ctx, &events.UnitStatusChanged{
			BaseEvent: events.NewBaseEvent(events.EventUnitStatusChanged, events.EntityUnit, t.Unit.BackendRef),
			Key:       key,
			Title:     t.Unit.Title,
			RatingKey: t.Unit.RatingKey,
			From:      string(t.From),
			To:        string(t.To),
			Progress:  t.Unit.Progress,
			Display:   t.To.Display(t.Unit.Progress),
		})

		switch t.To {
		case monitor.StateAvailable:
			_ = bus.Publish(ctx, &events.UnitAvailable{
				BaseEvent: events.NewBaseEvent(events.EventUnitAvailable, events.EntityUnit, t.Unit.BackendRef),
				Key:       key,
				Title:     t.Unit.Title,
				RatingKey: t.Unit.RatingKey,
			})
		case monitor.StateNotFound:
			reason := "timeout"
			if maxAttempts > 0 && t.Unit.Attempts > maxAttempts {
				reason = "attempt ceiling"
			}
			_ = bus.Publish(ctx, &events.UnitNotFound{
				BaseEvent: events.NewBaseEvent(events.EventUnitNotFound, events.EntityUnit, t.Unit.BackendRef),
				Key:       key,
				Title:     t.Unit.Title,
				RatingKey: t.Unit.RatingKey,
				Reason:    reason,
				Attempts:  t.Unit.Attempts,
			})
		}
	})
}

// bridgeCleanup removes the placeholder once a unit finishes its
// post-availability grace period, then nudges the catalog to rescan so only
// the real file remains.
func bridgeCleanup(
	bus *events.Bus,
	reg *monitor.Registry,
	router *quality.Router,
	placeholders *placeholder.Manager,
	plexClient *plex.Client,
	cfg *config.Config,
	logger *slog.Logger,
) {
	log := logger.With("component", "cleanup")
	reg.OnCleanup(func(u monitor.Unit) {
		ctx := context.Background()
		key := u.Identity.String()

		route, ok := router.Route(u.Identity.Kind, u.Tier)
		if ok && route.LibraryRoot != "" {
			var err error
			var section int
			switch u.Identity.Kind {
			case monitor.KindMovie:
				err = placeholders.DeleteMovie(route.LibraryRoot, u.Title, u.Year, u.Identity.ContentID)
				section = cfg.Plex.MovieSection
			case monitor.KindEpisode:
				seriesTitle := strings.TrimSuffix(u.Title,
					fmt.Sprintf(" - S%02dE%02d", u.Identity.Season, u.Identity.Episode))
				err = placeholders.DeleteEpisode(route.LibraryRoot, seriesTitle,
					u.Identity.SeriesID, u.Identity.Season, u.Identity.Episode)
				section = cfg.Plex.TVSection
			}
			if err != nil {
				log.Warn("placeholder delete failed", "key", key, "error", err)
			} else {
				_ = bus.Publish(ctx, &events.PlaceholderDeleted{
					BaseEvent: events.NewBaseEvent(events.EventPlaceholderDeleted, events.EntityPlaceholder, u.BackendRef),
					Key:       key,
				})
				if section != 0 {
					if err := plexClient.RefreshSection(ctx, section, route.LibraryRoot); err != nil {
						log.Warn("section refresh failed", "key", key, "error", err)
					}
				}
			}
		}

		_ = bus.Publish(ctx, &events.UnitRemoved{
			BaseEvent: events.NewBaseEvent(events.EventUnitRemoved, events.EntityUnit, u.BackendRef),
			Key:       key,
			Title:     u.Title,
			RatingKey: u.RatingKey,
		})
		log.Info("unit cleaned up", "key", key, "title", u.Title)
	})
}
