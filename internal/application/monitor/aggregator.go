package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sumonitor/go-sumonitor/internal/core/model"
	"github.com/sumonitor/go-sumonitor/internal/core/session"
	"github.com/sumonitor/go-sumonitor/internal/util"
)

// Aggregator is the facade presentation code talks to. Refresh rebuilds all
// sessions from the record source; the accessors never cache totals.
type Aggregator struct {
	source  RecordSource
	builder *session.Builder
	clock   util.Clock

	refreshMutex sync.Mutex // Prevent concurrent refreshes
	mu           sync.RWMutex
	sessions     []session.Session
	records      int
	lastErr      error
}

// NewAggregator creates a facade over source
func NewAggregator(source RecordSource, builder *session.Builder, clock util.Clock) *Aggregator {
	if clock == nil {
		clock = util.SystemClock
	}
	return &Aggregator{
		source:  source,
		builder: builder,
		clock:   clock,
	}
}

// Refresh scans for new records and rebuilds the session list. On failure
// the previous sessions stay in place and the error is returned.
func (a *Aggregator) Refresh() error {
	a.refreshMutex.Lock()
	defer a.refreshMutex.Unlock()

	result, err := a.source.Scan()
	if err != nil {
		a.mu.Lock()
		a.lastErr = err
		a.mu.Unlock()
		return fmt.Errorf("failed to scan usage records: %w", err)
	}

	sessions := a.builder.Build(result.Records)

	a.mu.Lock()
	a.sessions = sessions
	a.records = len(result.Records)
	a.lastErr = nil
	a.mu.Unlock()

	if result.Added > 0 || result.Evicted > 0 {
		util.LogDebug("Sessions rebuilt",
			util.F("sessions", len(sessions)),
			util.F("records", len(result.Records)),
			util.F("added", result.Added),
			util.F("evicted", result.Evicted))
	}
	return nil
}

// Sessions returns every known session, oldest first
func (a *Aggregator) Sessions() []session.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()

	sessions := make([]session.Session, len(a.sessions))
	copy(sessions, a.sessions)
	return sessions
}

// CurrentSession returns the active session at the current time, or nil
func (a *Aggregator) CurrentSession() *session.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return session.CurrentSession(a.sessions, a.clock())
}

// CurrentTotals sums the active session's entries. All six values are zero
// when no session is active.
func (a *Aggregator) CurrentTotals() model.Totals {
	if current := a.CurrentSession(); current != nil {
		return current.Totals()
	}
	return zeroTotals()
}

// Snapshot captures the aggregator state at the current time
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	now := a.clock()
	snap := Snapshot{
		Totals:    zeroTotals(),
		BurnRate:  session.BurnRate{CostPerHour: decimal.Zero},
		Sessions:  make([]session.Session, len(a.sessions)),
		Records:   a.records,
		UpdatedAt: now,
		Err:       a.lastErr,
	}
	copy(snap.Sessions, a.sessions)

	if current := session.CurrentSession(a.sessions, now); current != nil {
		snap.Active = true
		snap.Totals = current.Totals()
		snap.SessionStart = current.StartTime
		snap.ResetTime = current.EndTime()
		snap.BurnRate = current.BurnRate(now)
		snap.Models = current.Models()
	}
	return snap
}

// Window returns the session length used by the builder
func (a *Aggregator) Window() time.Duration {
	return a.builder.Window()
}

func zeroTotals() model.Totals {
	return model.SumTotals(nil)
}
