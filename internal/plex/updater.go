package plex

import (
	"context"
	"log/slog"

	"github.com/vmunix/holdarr/internal/events"
)

// titleWriter is the slice of Client the updater needs.
type titleWriter interface {
	UpdateTitle(ctx context.Context, ratingKey, title string) error
}

// TitleUpdater subscribes to monitor events and mirrors unit status into
// catalog titles: "Fight Club [Downloading 42%]". When a unit leaves
// monitoring because the real file arrived, the marker is stripped.
type TitleUpdater struct {
	bus    *events.Bus
	client titleWriter
	log    *slog.Logger
}

// NewTitleUpdater creates a title updater.
func NewTitleUpdater(bus *events.Bus, client titleWriter, log *slog.Logger) *TitleUpdater {
	if log == nil {
		log = slog.Default()
	}
	return &TitleUpdater{
		bus:    bus,
		client: client,
		log:    log.With("component", "title-updater"),
	}
}

// Name returns the handler name.
func (u *TitleUpdater) Name() string { return "title-updater" }

// Start begins processing events (blocking).
func (u *TitleUpdater) Start(ctx context.Context) error {
	changed := u.bus.Subscribe(events.EventUnitStatusChanged, 100)
	removed := u.bus.Subscribe(events.EventUnitRemoved, 100)

	for {
		select {
		case e := <-changed:
			if e == nil {
				return nil // Channel closed
			}
			u.handleStatusChanged(ctx, e.(*events.UnitStatusChanged))
		case e := <-removed:
			if e == nil {
				return nil // Channel closed
			}
			u.handleRemoved(ctx, e.(*events.UnitRemoved))
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (u *TitleUpdater) handleStatusChanged(ctx context.Context, e *events.UnitStatusChanged) {
	if e.RatingKey == "" {
		return // not in the catalog yet
	}
	title := WithStatusMarker(e.Title, e.Display)
	if err := u.client.UpdateTitle(ctx, e.RatingKey, title); err != nil {
		u.log.Warn("title update failed", "key", e.Key, "rating_key", e.RatingKey, "error", err)
		return
	}
	u.log.Debug("title marked", "key", e.Key, "title", title)
}

func (u *TitleUpdater) handleRemoved(ctx context.Context, e *events.UnitRemoved) {
	if e.RatingKey == "" {
		return
	}
	title := StripStatusMarkers(e.Title)
	if err := u.client.UpdateTitle(ctx, e.RatingKey, title); err != nil {
		u.log.Warn("title strip failed", "key", e.Key, "rating_key", e.RatingKey, "error", err)
		return
	}
	u.log.Debug("title restored", "key", e.Key, "title", title)
}
