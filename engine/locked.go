package engine

import (
	"sync"

	"github.com/sarchlab/hbsim/mem/cache"
	"github.com/sarchlab/hbsim/tracker"
)

// Locked serializes the calls to an engine so that the counters can be read
// from other goroutines while events are delivered.
type Locked struct {
	mu sync.Mutex
	e  *Engine
}

// NewLocked wraps an engine.
func NewLocked(e *Engine) *Locked {
	return &Locked{e: e}
}

// OnAccess replays an instruction.
func (l *Locked) OnAccess(a tracker.Access) tracker.AccessResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.e.OnAccess(a)
}

// OnEnter tells the engine that the program entered a routine.
func (l *Locked) OnEnter(routine string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.e.OnEnter(routine)
}

// Snapshot copies the current counters.
func (l *Locked) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.e.Snapshot()
}

// CacheStats returns a copy of the counters of the named cache.
func (l *Locked) CacheStats(name string) (cache.Stats, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, found := l.e.FindCache(name)
	if !found {
		return cache.Stats{}, false
	}

	return c.Stats(), true
}

// CacheNames lists the names of the reference cache and every target
// instance.
func (l *Locked) CacheNames() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	caches := l.e.Caches()
	names := make([]string, 0, len(caches))

	for _, c := range caches {
		names = append(names, c.Name())
	}

	return names
}
