package session

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sumonitor/go-sumonitor/internal/core/model"
	"github.com/sumonitor/go-sumonitor/internal/core/pricing"
)

var t0 = time.Date(2025, 10, 15, 8, 0, 0, 0, time.UTC)

func record(id string, offset time.Duration) model.UsageRecord {
	return priced(id, t0.Add(offset), "claude-sonnet-4-5-20250929", 100, 100)
}

func priced(id string, ts time.Time, modelName string, in, out int) model.UsageRecord {
	table := pricing.DefaultTable()
	inCost, inTier := table.Price(modelName, in, model.DirectionInput)
	outCost, outTier := table.Price(modelName, out, model.DirectionOutput)
	return model.UsageRecord{
		Model:        modelName,
		InputTokens:  in,
		OutputTokens: out,
		InputCost:    inCost,
		OutputCost:   outCost,
		InputTier:    inTier,
		OutputTier:   outTier,
		Timestamp:    ts,
		MessageID:    id,
		RequestID:    "req_" + id,
	}
}

func ids(s Session) []string {
	out := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		out = append(out, e.MessageID)
	}
	return out
}

func TestNewBuilderDefaultsWindow(t *testing.T) {
	assert.Equal(t, 5*time.Hour, NewBuilder(0).Window())
	assert.Equal(t, 5*time.Hour, NewBuilder(-time.Minute).Window())
	assert.Equal(t, time.Hour, NewBuilder(time.Hour).Window())
}

func TestBuildEmpty(t *testing.T) {
	b := NewBuilder(5 * time.Hour)

	sessions := b.Build(nil)

	assert.Empty(t, sessions)
	assert.Nil(t, CurrentSession(sessions, t0))
}

func TestBuildGapWindowing(t *testing.T) {
	b := NewBuilder(5 * time.Hour)

	sessions := b.Build([]model.UsageRecord{
		record("a", 0),
		record("b", 4*time.Hour),
		record("c", 6*time.Hour),
	})

	require.Len(t, sessions, 2)
	assert.Equal(t, t0, sessions[0].StartTime)
	assert.Equal(t, []string{"a", "b"}, ids(sessions[0]))
	assert.Equal(t, t0.Add(6*time.Hour), sessions[1].StartTime, "new session anchors at the record, not the boundary")
	assert.Equal(t, []string{"c"}, ids(sessions[1]))
}

func TestBuildExactBoundaryStartsNewSession(t *testing.T) {
	b := NewBuilder(5 * time.Hour)

	sessions := b.Build([]model.UsageRecord{
		record("a", 0),
		record("b", 5*time.Hour-time.Nanosecond),
		record("c", 5*time.Hour),
	})

	require.Len(t, sessions, 2)
	assert.Equal(t, []string{"a", "b"}, ids(sessions[0]))
	assert.Equal(t, []string{"c"}, ids(sessions[1]))
	assert.Equal(t, t0.Add(5*time.Hour), sessions[1].StartTime)
}

func TestBuildSortsUnorderedInput(t *testing.T) {
	b := NewBuilder(5 * time.Hour)
	input := []model.UsageRecord{
		record("c", 6*time.Hour),
		record("a", 0),
		record("b", 4*time.Hour),
	}

	sessions := b.Build(input)

	require.Len(t, sessions, 2)
	assert.Equal(t, []string{"a", "b"}, ids(sessions[0]))
	assert.Equal(t, "c", input[0].MessageID, "input must not be reordered")
}

func TestBuildStableForEqualTimestamps(t *testing.T) {
	b := NewBuilder(5 * time.Hour)

	sessions := b.Build([]model.UsageRecord{
		record("x", time.Hour),
		record("y", time.Hour),
		record("z", time.Hour),
	})

	require.Len(t, sessions, 1)
	assert.Equal(t, []string{"x", "y", "z"}, ids(sessions[0]))
}

func TestBuildCoversEveryRecordOnce(t *testing.T) {
	b := NewBuilder(time.Hour)
	var records []model.UsageRecord
	for i := 0; i < 50; i++ {
		records = append(records, record(string(rune('A'+i)), time.Duration(i*17)*time.Minute))
	}

	sessions := b.Build(records)

	total := 0
	for i, s := range sessions {
		total += len(s.Entries)
		for _, e := range s.Entries {
			assert.True(t, s.Contains(e.Timestamp))
		}
		assert.Equal(t, s.StartTime, s.Entries[0].Timestamp)
		if i > 0 {
			assert.False(t, sessions[i-1].EndTime().After(s.StartTime), "sessions must not overlap")
		}
	}
	assert.Equal(t, len(records), total)
}

func TestBuildCustomWindow(t *testing.T) {
	b := NewBuilder(time.Hour)

	sessions := b.Build([]model.UsageRecord{
		record("a", 0),
		record("b", 30*time.Minute),
		record("c", 90*time.Minute),
	})

	require.Len(t, sessions, 2)
	assert.Equal(t, time.Hour, sessions[1].Window)
}

func TestCurrentSession(t *testing.T) {
	b := NewBuilder(5 * time.Hour)
	sessions := b.Build([]model.UsageRecord{
		record("a", 0),
		record("b", 6*time.Hour),
	})
	start := t0.Add(6 * time.Hour)

	tests := []struct {
		name   string
		now    time.Time
		active bool
	}{
		{"at start", start, true},
		{"inside window", start.Add(4 * time.Hour), true},
		{"just before end", start.Add(5*time.Hour - time.Nanosecond), true},
		{"at end", start.Add(5 * time.Hour), false},
		{"long after", start.Add(48 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := CurrentSession(sessions, tt.now)
			if !tt.active {
				assert.Nil(t, current)
				return
			}
			require.NotNil(t, current)
			assert.Equal(t, start, current.StartTime)
			assert.Equal(t, start.Add(5*time.Hour), current.EndTime())
		})
	}
}

func TestCurrentSessionOnlyConsidersMostRecent(t *testing.T) {
	sessions := []Session{
		{StartTime: t0.Add(10 * time.Hour), Window: 5 * time.Hour},
		{StartTime: t0, Window: 5 * time.Hour},
	}

	assert.Nil(t, CurrentSession(sessions, t0.Add(11*time.Hour)))
}

func TestSessionTotals(t *testing.T) {
	b := NewBuilder(5 * time.Hour)
	sessions := b.Build([]model.UsageRecord{
		record("a", 0),
		record("b", time.Minute),
		record("c", 2*time.Minute),
	})
	require.Len(t, sessions, 1)

	totals := sessions[0].Totals()

	assert.Equal(t, 300, totals.InputTokens)
	assert.Equal(t, 300, totals.OutputTokens)
	assert.Equal(t, 600, totals.TotalTokens)
	// 3 * 100 * 3 / 1e6 and 3 * 100 * 15 / 1e6
	assert.True(t, decimal.RequireFromString("0.0009").Equal(totals.InputCost))
	assert.True(t, decimal.RequireFromString("0.0045").Equal(totals.OutputCost))
	assert.True(t, decimal.RequireFromString("0.0054").Equal(totals.TotalCost))
}

func TestSessionTotalsSumIndividuallyPricedCosts(t *testing.T) {
	s := Session{
		StartTime: t0,
		Window:    5 * time.Hour,
		Entries: []model.UsageRecord{
			priced("a", t0, "claude-sonnet-4-5", 150_000, 0),
			priced("b", t0.Add(time.Minute), "claude-sonnet-4-5", 150_000, 0),
		},
	}

	totals := s.Totals()

	// 300k aggregated would be priced in the upper tier (1.80); each record
	// is priced on its own (0.45 each).
	assert.Equal(t, 300_000, totals.InputTokens)
	assert.True(t, decimal.RequireFromString("0.9").Equal(totals.InputCost))
}

func TestSessionModels(t *testing.T) {
	s := Session{
		StartTime: t0,
		Window:    5 * time.Hour,
		Entries: []model.UsageRecord{
			priced("a", t0, "claude-sonnet-4-5", 10, 10),
			priced("b", t0, "claude-haiku-4-5", 10, 10),
			priced("c", t0, "claude-sonnet-4-5", 10, 10),
		},
	}

	assert.Equal(t, []string{"claude-sonnet-4-5", "claude-haiku-4-5"}, s.Models())

	byModel := s.ModelTotals()
	require.Len(t, byModel, 2)
	assert.Equal(t, 40, byModel["claude-sonnet-4-5"].TotalTokens)
	assert.Equal(t, 20, byModel["claude-haiku-4-5"].TotalTokens)
}

func TestSessionLastEntryTime(t *testing.T) {
	s := Session{StartTime: t0, Window: time.Hour}
	assert.Equal(t, t0, s.LastEntryTime())

	s.Entries = []model.UsageRecord{record("a", 0), record("b", 10*time.Minute)}
	assert.Equal(t, t0.Add(10*time.Minute), s.LastEntryTime())
}

func TestSessionBurnRate(t *testing.T) {
	s := Session{
		StartTime: t0,
		Window:    5 * time.Hour,
		Entries: []model.UsageRecord{
			priced("a", t0, "claude-haiku-4-5", 1_000_000, 0),
			priced("b", t0.Add(30*time.Minute), "claude-haiku-4-5", 200_000, 0),
		},
	}

	rate := s.BurnRate(t0.Add(2 * time.Hour))
	assert.InDelta(t, 10_000.0, rate.TokensPerMinute, 1e-9)
	assert.True(t, decimal.RequireFromString("0.6").Equal(rate.CostPerHour))

	closed := s.BurnRate(t0.Add(24 * time.Hour))
	assert.InDelta(t, 40_000.0, closed.TokensPerMinute, 1e-9)

	early := s.BurnRate(t0.Add(10 * time.Second))
	assert.Zero(t, early.TokensPerMinute)
	assert.True(t, early.CostPerHour.IsZero())
}
