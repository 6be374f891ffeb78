// Package session groups usage records into fixed-length billing windows.
package session

import (
	"slices"
	"time"

	"github.com/sumonitor/go-sumonitor/internal/core/constants"
	"github.com/sumonitor/go-sumonitor/internal/core/model"
)

// Builder partitions records into sessions. It holds no state besides the
// window length, so one Builder can be shared.
type Builder struct {
	window time.Duration
}

// NewBuilder creates a builder; a non-positive window falls back to the
// five hour default.
func NewBuilder(window time.Duration) *Builder {
	if window <= 0 {
		window = constants.SessionDuration
	}
	return &Builder{window: window}
}

// Window returns the session length
func (b *Builder) Window() time.Duration {
	return b.window
}

// Build sorts records by timestamp and walks them once. A record joins the
// current session when its timestamp is strictly before start+window;
// otherwise it anchors a new session at its own timestamp, not at the
// previous boundary. The input slice is not modified.
func (b *Builder) Build(records []model.UsageRecord) []Session {
	if len(records) == 0 {
		return nil
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(x, y model.UsageRecord) int {
		return x.Timestamp.Compare(y.Timestamp)
	})

	var sessions []Session
	current := Session{StartTime: sorted[0].Timestamp, Window: b.window}
	for _, rec := range sorted {
		if !current.Contains(rec.Timestamp) {
			sessions = append(sessions, current)
			current = Session{StartTime: rec.Timestamp, Window: b.window}
		}
		current.Entries = append(current.Entries, rec)
	}
	return append(sessions, current)
}

// CurrentSession returns the active session at now, or nil. Sessions never
// overlap, so only the most recent one can be active.
func CurrentSession(sessions []Session, now time.Time) *Session {
	if len(sessions) == 0 {
		return nil
	}
	last := sessions[len(sessions)-1]
	if !last.IsActive(now) {
		return nil
	}
	return &last
}
