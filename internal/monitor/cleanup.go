package monitor

import (
	"sync"
	"time"
)

// cleanupScheduler owns the per-identity delayed removal timers. A second
// schedule for the same identity replaces the pending one.
type cleanupScheduler struct {
	mu     sync.Mutex
	timers map[Identity]*time.Timer
}

func newCleanupScheduler() *cleanupScheduler {
	return &cleanupScheduler{timers: make(map[Identity]*time.Timer)}
}

func (s *cleanupScheduler) schedule(id Identity, delay time.Duration, fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
	}
	s.timers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		fire()
	})
}

func (s *cleanupScheduler) cancel(id Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *cleanupScheduler) cancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
