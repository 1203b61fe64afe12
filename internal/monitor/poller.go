package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -destination=mocks/queue_client.go -package=mocks github.com/vmunix/holdarr/internal/monitor QueueClient

// QueueItem is one download queue entry from a backend, already reduced to
// the fields the poller consumes. BackendID is the backend's unit id
// (movie id or episode id), the correlation key against Unit.BackendRef.
type QueueItem struct {
	BackendID int64
	Status    string
	Size      int64
	SizeLeft  int64
}

// UnitDetail is the backend's view of a single unit, fetched when the unit
// has dropped out of the queue.
type UnitDetail struct {
	HasFile bool
}

// QueueClient is the slice of a download backend the poller needs.
type QueueClient interface {
	// FetchQueue returns the backend's entire current download queue.
	FetchQueue(ctx context.Context) ([]QueueItem, error)
	// FetchUnit returns the backend's record for one unit.
	FetchUnit(ctx context.Context, backendID int64) (UnitDetail, error)
}

// BackendKey identifies one backend instance: a media kind at a quality tier.
type BackendKey struct {
	Kind Kind
	Tier Tier
}

// Backends maps backend identities to their clients. Multiple tracked units
// sharing a key share a single queue fetch per cycle.
type Backends map[BackendKey]QueueClient

// PollerConfig bounds the poll loop.
type PollerConfig struct {
	Interval       time.Duration // delay between cycles
	MaxMonitorTime time.Duration // wall-clock ceiling per unit, measured from StartedAt
	MaxAttempts    int           // poll cycle ceiling per unit
}

func (c *PollerConfig) applyDefaults() {
	if c.Interval <= 0 {
		c.Interval = 10 * time.Second
	}
	if c.MaxMonitorTime <= 0 {
		c.MaxMonitorTime = time.Hour
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 500
	}
}

// Poller drives the registry's status lifecycle. Each cycle it fetches every
// distinct backend queue exactly once, joins the tracked units against the
// results, and applies status updates. It parks itself when the registry
// drains and is restarted by the registry's wake callback.
type Poller struct {
	reg      *Registry
	backends Backends
	cfg      PollerConfig
	log      *slog.Logger

	wakeCh chan struct{}

	// consecutive queue-absent cycles per unit; a unit missing twice after
	// having been active is declared failed and retried
	absentMu sync.Mutex
	absent   map[Identity]int
}

// NewPoller wires a poller to a registry and a backend set.
func NewPoller(reg *Registry, backends Backends, cfg PollerConfig, log *slog.Logger) *Poller {
	cfg.applyDefaults()
	if log == nil {
		log = slog.Default()
	}
	return &Poller{
		reg:      reg,
		backends: backends,
		cfg:      cfg,
		log:      log.With("component", "poller"),
		wakeCh:   make(chan struct{}, 1),
		absent:   make(map[Identity]int),
	}
}

// Wake nudges a parked poller into a new polling run. Non-blocking; a wake
// during an active run is coalesced.
func (p *Poller) Wake() {
	select {
	case p.wakeCh <- struct{}{}:
	default:
	}
}

// Start blocks until ctx is cancelled. The poller alternates between parked
// (registry empty, waiting on Wake) and running (cycling every Interval).
func (p *Poller) Start(ctx context.Context) error {
	p.log.Info("poller started", "interval", p.cfg.Interval, "max_monitor_time", p.cfg.MaxMonitorTime)
	for {
		select {
		case <-ctx.Done():
			p.log.Info("poller stopped")
			return ctx.Err()
		case <-p.wakeCh:
			p.run(ctx)
		}
	}
}

// run cycles until the registry drains or ctx is cancelled.
func (p *Poller) run(ctx context.Context) {
	if !p.cycle(ctx) {
		return
	}
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.cycle(ctx) {
				p.log.Debug("registry empty, poller parked")
				return
			}
		}
	}
}

// cycle runs one poll pass. Returns false when the registry is empty and the
// poller should park.
func (p *Poller) cycle(ctx context.Context) bool {
	units := p.reg.Snapshot()
	if len(units) == 0 {
		return false
	}

	// Enforce per-unit ceilings before touching the network.
	active := units[:0]
	for _, u := range units {
		attempts, ok := p.reg.RecordAttempt(u.Identity)
		if !ok {
			continue
		}
		if time.Since(u.StartedAt) > p.cfg.MaxMonitorTime || attempts > p.cfg.MaxAttempts {
			p.giveUp(u, attempts)
			continue
		}
		active = append(active, u)
	}
	if len(active) == 0 {
		return p.reg.Len() > 0
	}

	// One queue fetch per distinct backend, in parallel, outside any lock.
	groups := make(map[BackendKey][]Unit)
	for _, u := range active {
		key := BackendKey{Kind: u.Identity.Kind, Tier: u.Tier}
		groups[key] = append(groups[key], u)
	}

	var mu sync.Mutex
	queues := make(map[BackendKey]map[int64]QueueItem)

	g, gctx := errgroup.WithContext(ctx)
	for key := range groups {
		client, ok := p.backends[key]
		if !ok {
			p.log.Error("no backend configured", "kind", key.Kind, "tier", key.Tier)
			continue
		}
		g.Go(func() error {
			items, err := client.FetchQueue(gctx)
			if err != nil {
				// Units on this backend keep their status for the cycle.
				p.log.Warn("queue fetch failed", "kind", key.Kind, "tier", key.Tier, "error", err)
				return nil
			}
			byID := make(map[int64]QueueItem, len(items))
			for _, it := range items {
				byID[it.BackendID] = it
			}
			mu.Lock()
			queues[key] = byID
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for key, group := range groups {
		byID, fetched := queues[key]
		if !fetched {
			continue
		}
		client := p.backends[key]
		for _, u := range group {
			if item, inQueue := byID[u.BackendRef]; inQueue {
				p.applyQueueItem(u, item)
			} else {
				p.handleAbsent(ctx, client, u)
			}
		}
	}
	return p.reg.Len() > 0
}

// applyQueueItem maps a live queue entry onto the unit's state.
func (p *Poller) applyQueueItem(u Unit, item QueueItem) {
	p.clearAbsent(u.Identity)

	state, ok := StateForQueueStatus(item.Status)
	if !ok {
		p.log.Debug("unknown queue status, keeping state",
			"unit", u.Identity.String(), "status", item.Status)
		return
	}

	switch state {
	case StateDownloading:
		p.reg.UpdateStatus(u.Identity, StateDownloading, ProgressPercent(item.Size, item.SizeLeft))
	case StateProcessing:
		p.reg.UpdateStatus(u.Identity, StateProcessing, 100)
	case StateQueued:
		p.reg.UpdateStatus(u.Identity, StateQueued, u.Progress)
	case StateRetrying:
		p.reg.UpdateStatus(u.Identity, StateRetrying, 0)
	}
}

// handleAbsent resolves a unit missing from its backend queue. Units still
// searching or retrying are expected to be absent; units that were active
// either finished (backend has the file) or silently failed.
func (p *Poller) handleAbsent(ctx context.Context, client QueueClient, u Unit) {
	switch u.State {
	case StateDownloading, StateProcessing, StateQueued:
	default:
		return
	}

	detail, err := client.FetchUnit(ctx, u.BackendRef)
	if err != nil {
		p.log.Warn("unit fetch failed", "unit", u.Identity.String(), "error", err)
		return
	}
	if detail.HasFile {
		p.clearAbsent(u.Identity)
		p.reg.UpdateStatus(u.Identity, StateAvailable, 100)
		return
	}

	n := p.bumpAbsent(u.Identity)
	if n >= 2 {
		p.clearAbsent(u.Identity)
		p.log.Info("download vanished from queue, retrying", "unit", u.Identity.String())
		p.reg.UpdateStatus(u.Identity, StateRetrying, 0)
	}
}

// giveUp marks a unit NotFound and drops it. The placeholder stays on disk;
// a later playback retriggers the whole flow.
func (p *Poller) giveUp(u Unit, attempts int) {
	reason := "timeout"
	if attempts > p.cfg.MaxAttempts {
		reason = "attempt ceiling"
	}
	p.log.Warn("giving up on unit",
		"unit", u.Identity.String(), "title", u.Title, "reason", reason,
		"attempts", attempts, "elapsed", time.Since(u.StartedAt).Round(time.Second))
	p.reg.UpdateStatus(u.Identity, StateNotFound, 0)
	p.reg.Remove(u.Identity)
	p.clearAbsent(u.Identity)
}

func (p *Poller) bumpAbsent(id Identity) int {
	p.absentMu.Lock()
	defer p.absentMu.Unlock()
	p.absent[id]++
	return p.absent[id]
}

func (p *Poller) clearAbsent(id Identity) {
	p.absentMu.Lock()
	defer p.absentMu.Unlock()
	delete(p.absent, id)
}
