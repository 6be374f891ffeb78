package monitor

import (
	"sync"
)

// StateManager holds the latest snapshot for readers on other goroutines
type StateManager struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// NewStateManager creates a new StateManager instance
func NewStateManager() *StateManager {
	return &StateManager{snapshot: Snapshot{Totals: zeroTotals()}}
}

// Set publishes a snapshot
func (sm *StateManager) Set(snapshot Snapshot) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.snapshot = snapshot
}

// Get returns the latest snapshot. The session slice is copied so callers
// may reorder it freely.
func (sm *StateManager) Get() Snapshot {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	snap := sm.snapshot
	if snap.Sessions != nil {
		snap.Sessions = append(snap.Sessions[:0:0], snap.Sessions...)
	}
	return snap
}
