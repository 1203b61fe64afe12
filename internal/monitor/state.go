package monitor

import (
	"fmt"
	"strings"
)

// State tracks where a unit is in its acquisition lifecycle.
type State string

const (
	StateSearching   State = "searching"   // initial: search triggered, nothing in queue yet
	StateQueued      State = "queued"      // queue item present but not transferring
	StateDownloading State = "downloading" // queue item actively transferring
	StateProcessing  State = "processing"  // transfer done, backend importing
	StateRetrying    State = "retrying"    // queue item vanished or download failed
	StateAvailable   State = "available"   // real file confirmed, terminal
	StateNotFound    State = "not_found"   // gave up (timeout or attempt ceiling), terminal
)

// validTransitions defines allowed state transitions.
// Key is the "from" state, value is the list of valid "to" states.
var validTransitions = map[State][]State{
	StateSearching:   {StateQueued, StateDownloading, StateProcessing, StateRetrying, StateAvailable, StateNotFound},
	StateQueued:      {StateSearching, StateDownloading, StateProcessing, StateRetrying, StateAvailable, StateNotFound},
	StateDownloading: {StateQueued, StateProcessing, StateRetrying, StateAvailable, StateNotFound},
	StateProcessing:  {StateQueued, StateDownloading, StateRetrying, StateAvailable, StateNotFound},
	StateRetrying:    {StateSearching, StateQueued, StateDownloading, StateProcessing, StateAvailable, StateNotFound},
	StateAvailable:   {}, // terminal
	StateNotFound:    {}, // terminal
}

// CanTransitionTo returns true if transitioning from s to target is valid.
func (s State) CanTransitionTo(target State) bool {
	for _, v := range validTransitions[s] {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if this state has no valid outgoing transitions.
func (s State) IsTerminal() bool {
	return s == StateAvailable || s == StateNotFound
}

// Display renders the state as the status string surfaced in catalog titles.
// Progress is only consulted for the downloading state.
func (s State) Display(progress int) string {
	switch s {
	case StateSearching:
		return "Searching..."
	case StateQueued:
		return "Queued"
	case StateDownloading:
		if progress > 0 {
			return fmt.Sprintf("Downloading %d%%", progress)
		}
		return "Downloading..."
	case StateProcessing:
		return "Processing..."
	case StateRetrying:
		return "Retrying..."
	case StateAvailable:
		return "Available"
	case StateNotFound:
		return "Not Found"
	default:
		return string(s)
	}
}

// StateForQueueStatus maps a backend queue item's free-text status to a
// lifecycle state. Unknown statuses return ok=false; the unit then keeps its
// previous state for the cycle.
func StateForQueueStatus(raw string) (State, bool) {
	switch strings.ToLower(raw) {
	case "downloading", "download":
		return StateDownloading, true
	case "completed":
		return StateProcessing, true
	case "queued", "delay", "paused":
		return StateQueued, true
	case "warning", "error", "failed":
		return StateRetrying, true
	default:
		return "", false
	}
}

// ProgressPercent computes completed percentage from queue item sizes.
// Returns 0 for zero or malformed sizes so the caller falls back to an
// indeterminate "Downloading..." display.
func ProgressPercent(sizeTotal, sizeRemaining int64) int {
	if sizeTotal <= 0 || sizeRemaining < 0 || sizeRemaining > sizeTotal {
		return 0
	}
	return int((sizeTotal - sizeRemaining) * 100 / sizeTotal)
}
