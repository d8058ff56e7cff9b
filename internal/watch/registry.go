package watch

// The watch registry: the single piece of shared mutable state.
// It owns every watched token's lifecycle flags; the discovery loop,
// scheduler and release monitors mutate entries only through its methods,
// so each transition is atomic under one mutex.

import (
	"sync"
	"time"
)

// EntryView is a point-in-time copy of one watched token, safe to use
// without holding the registry lock.
type EntryView struct {
	ID                string
	Name              string
	Symbol            string
	StartTime         time.Time // always UTC
	MonitoringStarted bool
	Released          bool
}

type entry struct {
	name              string
	symbol            string
	startTime         time.Time
	monitoringStarted bool
	released          bool
}

// Registry is a concurrent-safe map of token id to lifecycle entry.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// TryAdmit inserts a new entry iff the id is absent and startTime is
// strictly in the future. The start time is normalized to UTC before
// storage. Returns whether the insertion happened.
func (r *Registry) TryAdmit(id, name, symbol string, startTime time.Time) bool {
	if id == "" {
		return false
	}
	startTime = startTime.UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		return false
	}
	if !startTime.After(time.Now().UTC()) {
		return false
	}
	r.entries[id] = &entry{
		name:      name,
		symbol:    symbol,
		startTime: startTime,
	}
	return true
}

// Snapshot returns a consistent copy of all entries, so callers can iterate
// and spawn work without holding the lock.
func (r *Registry) Snapshot() []EntryView {
	r.mu.Lock()
	defer r.mu.Unlock()

	views := make([]EntryView, 0, len(r.entries))
	for id, e := range r.entries {
		views = append(views, EntryView{
			ID:                id,
			Name:              e.name,
			Symbol:            e.symbol,
			StartTime:         e.startTime,
			MonitoringStarted: e.monitoringStarted,
			Released:          e.released,
		})
	}
	return views
}

// MarkMonitoringStarted flips the flag and returns true only on the
// false->true transition. Concurrent callers race for a single true.
func (r *Registry) MarkMonitoringStarted(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, exists := r.entries[id]
	if !exists || e.monitoringStarted {
		return false
	}
	e.monitoringStarted = true
	return true
}

// MarkReleased flips the terminal flag and returns true only on the
// false->true transition.
func (r *Registry) MarkReleased(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, exists := r.entries[id]
	if !exists || e.released {
		return false
	}
	e.released = true
	return true
}

// Len returns the number of entries currently held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep evicts terminal entries: everything released, plus unreleased
// entries whose start time is more than staleAfter in the past (their
// release was never observed). staleAfter <= 0 disables stale eviction.
// Returns the number of evicted entries.
func (r *Registry) Sweep(now time.Time, staleAfter time.Duration) int {
	now = now.UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, e := range r.entries {
		stale := staleAfter > 0 && now.Sub(e.startTime) > staleAfter
		if e.released || stale {
			delete(r.entries, id)
			evicted++
		}
	}
	return evicted
}
