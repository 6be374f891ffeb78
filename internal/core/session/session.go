package session

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sumonitor/go-sumonitor/internal/core/model"
)

// Session is a window of usage anchored at the timestamp of its first
// record. It covers the half-open interval [StartTime, StartTime+Window).
// Aggregates are always derived from Entries.
type Session struct {
	StartTime time.Time
	Window    time.Duration
	Entries   []model.UsageRecord
}

// EndTime is the exclusive end of the window, also the quota reset time
func (s *Session) EndTime() time.Time {
	return s.StartTime.Add(s.Window)
}

// Contains reports whether ts falls inside the window
func (s *Session) Contains(ts time.Time) bool {
	return !ts.Before(s.StartTime) && ts.Before(s.EndTime())
}

// IsActive reports whether the window is still open at now
func (s *Session) IsActive(now time.Time) bool {
	return now.Before(s.EndTime())
}

// Totals sums the individually priced entries
func (s *Session) Totals() model.Totals {
	return model.SumTotals(s.Entries)
}

// LastEntryTime returns the timestamp of the newest entry
func (s *Session) LastEntryTime() time.Time {
	if len(s.Entries) == 0 {
		return s.StartTime
	}
	return s.Entries[len(s.Entries)-1].Timestamp
}

// Models lists the distinct models used, in order of first use
func (s *Session) Models() []string {
	return lo.Uniq(lo.Map(s.Entries, func(r model.UsageRecord, _ int) string {
		return r.Model
	}))
}

// ModelTotals groups the entries by model
func (s *Session) ModelTotals() map[string]model.Totals {
	grouped := lo.GroupBy(s.Entries, func(r model.UsageRecord) string {
		return r.Model
	})
	return lo.MapValues(grouped, func(records []model.UsageRecord, _ string) model.Totals {
		return model.SumTotals(records)
	})
}

// BurnRate is the consumption rate of a session so far
type BurnRate struct {
	TokensPerMinute float64         `json:"tokensPerMinute"`
	CostPerHour     decimal.Decimal `json:"costPerHour"`
}

// BurnRate measures consumption between the session start and now, or the
// last entry once the window has closed. Under a minute it reports zero.
func (s *Session) BurnRate(now time.Time) BurnRate {
	elapsed := now.Sub(s.StartTime)
	if elapsed > s.Window {
		elapsed = s.LastEntryTime().Sub(s.StartTime)
	}
	if elapsed < time.Minute {
		return BurnRate{CostPerHour: decimal.Zero}
	}

	totals := s.Totals()
	hours := decimal.NewFromFloat(elapsed.Hours())
	return BurnRate{
		TokensPerMinute: float64(totals.TotalTokens) / elapsed.Minutes(),
		CostPerHour:     totals.TotalCost.Div(hours),
	}
}
