package monitor

import (
	"log/slog"
	"sync"
	"time"
)

// TransitionEvent describes one observable status change of a unit.
// The embedded Unit is a copy taken after the change was applied.
type TransitionEvent struct {
	Unit Unit
	From State
	To   State
	At   time.Time
}

// TransitionHandler is called on every emitted status transition.
type TransitionHandler func(TransitionEvent)

// CleanupHandler is called when an available unit's grace delay elapses and
// the unit is dropped from the registry.
type CleanupHandler func(Unit)

// Registry is the authoritative in-memory table of units currently being
// tracked. All access is serialized under a single lock; operations are O(1)
// map mutations, never I/O. State is volatile: a restart loses in-flight
// tracking and it is rebuilt from subsequent playback events.
type Registry struct {
	mu    sync.Mutex
	units map[Identity]*Unit

	transitionHandlers []TransitionHandler
	cleanupHandlers    []CleanupHandler

	cleanup      *cleanupScheduler
	cleanupDelay time.Duration

	wake func() // restarts the poller on empty -> non-empty
	log  *slog.Logger
}

// NewRegistry creates an empty registry. cleanupDelay is how long an
// available unit lingers before removal, giving the catalog time to scan the
// real file.
func NewRegistry(cleanupDelay time.Duration, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		units:        make(map[Identity]*Unit),
		cleanup:      newCleanupScheduler(),
		cleanupDelay: cleanupDelay,
		log:          log.With("component", "registry"),
	}
}

// OnTransition registers a handler called on every status transition,
// including the initial transition emitted by Add.
func (r *Registry) OnTransition(h TransitionHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitionHandlers = append(r.transitionHandlers, h)
}

// OnCleanup registers a handler called when an available unit is removed
// after its grace delay.
func (r *Registry) OnCleanup(h CleanupHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleanupHandlers = append(r.cleanupHandlers, h)
}

// SetWake installs the callback invoked when the registry goes from empty to
// non-empty. Used to restart an idle poller.
func (r *Registry) SetWake(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wake = fn
}

// Add inserts a unit if its identity is not already tracked. Returns true if
// the unit was newly added; adding a duplicate identity is a no-op.
func (r *Registry) Add(u Unit) bool {
	r.mu.Lock()

	if _, exists := r.units[u.Identity]; exists {
		r.mu.Unlock()
		return false
	}

	now := time.Now()
	if u.State == "" {
		u.State = StateSearching
	}
	if u.StartedAt.IsZero() {
		u.StartedAt = now
	}
	u.LastTransitionAt = now

	r.units[u.Identity] = &u
	wake := r.wake
	wasEmpty := len(r.units) == 1
	ev := TransitionEvent{Unit: u, From: "", To: u.State, At: now}
	handlers := r.transitionHandlers
	r.mu.Unlock()

	r.log.Info("unit added", "unit", u.Identity.String(), "title", u.Title, "tier", u.Tier)

	for _, h := range handlers {
		h(ev)
	}
	if wasEmpty && wake != nil {
		wake()
	}
	return true
}

// Remove deletes a unit and returns it. Any pending cleanup for the identity
// is cancelled so a delayed removal never fires against a reused identity.
func (r *Registry) Remove(id Identity) (Unit, bool) {
	r.mu.Lock()
	u, ok := r.units[id]
	if !ok {
		r.mu.Unlock()
		return Unit{}, false
	}
	delete(r.units, id)
	removed := *u
	r.mu.Unlock()

	r.cleanup.cancel(id)
	r.log.Debug("unit removed", "unit", id.String())
	return removed, true
}

// Get returns a copy of the tracked unit, if present.
func (r *Registry) Get(id Identity) (Unit, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[id]
	if !ok {
		return Unit{}, false
	}
	return *u, true
}

// Len returns the number of tracked units.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.units)
}

// Snapshot returns copies of all tracked units. The poller iterates the
// snapshot so concurrent adds and removes never invalidate an iteration;
// a unit removed mid-cycle simply makes later updates no-ops.
func (r *Registry) Snapshot() []Unit {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Unit, 0, len(r.units))
	for _, u := range r.units {
		out = append(out, *u)
	}
	return out
}

// RecordAttempt increments a unit's poll cycle counter and returns the new
// count. Returns ok=false if the unit is no longer tracked.
func (r *Registry) RecordAttempt(id Identity) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[id]
	if !ok {
		return 0, false
	}
	u.Attempts++
	return u.Attempts, true
}

// UpdateStatus mutates a unit's state and progress in place. It is a no-op
// if the identity is unknown (removed concurrently), if the new
// state and progress match the current ones (suppresses redundant
// notifications), or if the transition is invalid. Returns true when a
// transition was applied and emitted.
//
// Transitioning into StateAvailable schedules the delayed removal of the
// unit; transitioning into StateRetrying resets the timeout clock.
func (r *Registry) UpdateStatus(id Identity, to State, progress int) bool {
	r.mu.Lock()

	u, ok := r.units[id]
	if !ok {
		r.mu.Unlock()
		return false
	}
	if u.State == to && u.Progress == progress {
		r.mu.Unlock()
		return false
	}
	if u.State != to && !u.State.CanTransitionTo(to) {
		r.mu.Unlock()
		r.log.Warn("invalid status transition ignored",
			"unit", id.String(), "from", u.State, "to", to)
		return false
	}

	now := time.Now()
	from := u.State
	u.State = to
	u.Progress = progress
	u.LastTransitionAt = now
	if to == StateRetrying {
		u.Retrying = true
		u.StartedAt = now // reset the timeout clock for the retry
	}

	ev := TransitionEvent{Unit: *u, From: from, To: to, At: now}
	handlers := r.transitionHandlers

	// Armed before the lock drops: a Remove racing this update must always
	// find the timer and cancel it, or a re-added identity would inherit a
	// stale delayed removal.
	if to == StateAvailable {
		r.scheduleCleanup(id)
	}
	r.mu.Unlock()

	if from != to {
		r.log.Info("status change",
			"unit", id.String(), "from", from, "to", to, "progress", progress)
	}

	for _, h := range handlers {
		h(ev)
	}
	return true
}

// scheduleCleanup arms the one-shot delayed removal for an available unit.
func (r *Registry) scheduleCleanup(id Identity) {
	r.cleanup.schedule(id, r.cleanupDelay, func() {
		u, ok := r.Remove(id)
		if !ok {
			return // removed earlier by another path
		}
		r.log.Info("unit available, dropped from monitoring", "unit", id.String(), "title", u.Title)

		r.mu.Lock()
		handlers := r.cleanupHandlers
		r.mu.Unlock()
		for _, h := range handlers {
			h(u)
		}
	})
}

// Close cancels all pending cleanup timers.
func (r *Registry) Close() {
	r.cleanup.cancelAll()
}
