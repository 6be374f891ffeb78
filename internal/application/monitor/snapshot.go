package monitor

import (
	"time"

	"github.com/sumonitor/go-sumonitor/internal/core/model"
	"github.com/sumonitor/go-sumonitor/internal/core/session"
	"github.com/sumonitor/go-sumonitor/internal/util"
)

// Snapshot is an immutable view of one refresh, handed from the polling
// goroutine to presentation.
type Snapshot struct {
	Totals       model.Totals
	Active       bool
	SessionStart time.Time
	ResetTime    time.Time
	BurnRate     session.BurnRate
	Models       []string
	Sessions     []session.Session
	Records      int
	UpdatedAt    time.Time
	Err          error
}

// Remaining returns the time left until the active session resets
func (s Snapshot) Remaining() time.Duration {
	if !s.Active {
		return 0
	}
	_, remaining := util.SessionProgress(s.SessionStart, s.ResetTime.Sub(s.SessionStart), s.UpdatedAt)
	return remaining
}

// Progress returns how much of the active session window has elapsed, as
// a percentage
func (s Snapshot) Progress() float64 {
	if !s.Active {
		return 0
	}
	window := s.ResetTime.Sub(s.SessionStart)
	elapsed, _ := util.SessionProgress(s.SessionStart, window, s.UpdatedAt)
	return util.SessionPercentage(elapsed, window)
}
