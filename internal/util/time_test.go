package util

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTimeProvider(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{"local timezone", "Local", false},
		{"UTC timezone", "UTC", false},
		{"valid timezone Asia/Shanghai", "Asia/Shanghai", false},
		{"invalid timezone", "Invalid/Timezone", true},
		{"empty timezone defaults to Local", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitializeTimeProvider(tt.timezone)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "invalid timezone")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, GetTimeProvider().Location())
		})
	}
}

func TestInitializeTimeProviderKeepsPreviousOnError(t *testing.T) {
	require.NoError(t, InitializeTimeProvider("UTC"))
	require.Error(t, InitializeTimeProvider("Nope/Nowhere"))

	assert.Equal(t, time.UTC, GetTimeProvider().Location())
}

func TestTimeProviderFormat(t *testing.T) {
	tp := &TimeProvider{}
	require.NoError(t, tp.SetTimezone("Asia/Tokyo"))

	ts := time.Date(2025, 10, 15, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, "10:30", tp.Format(ts, "15:04"))
	assert.Equal(t, 10, tp.In(ts).Hour())
}

func TestTimeProviderConcurrency(t *testing.T) {
	tp := &TimeProvider{}
	require.NoError(t, tp.SetTimezone("UTC"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = tp.Now()
		}()
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = tp.SetTimezone("UTC")
			} else {
				_ = tp.SetTimezone("Europe/London")
			}
		}(i)
	}
	wg.Wait()
}

func TestSystemClockIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, SystemClock().Location())
}

func TestSessionProgress(t *testing.T) {
	start := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	window := 5 * time.Hour

	tests := []struct {
		name          string
		now           time.Time
		wantElapsed   time.Duration
		wantRemaining time.Duration
	}{
		{"at start", start, 0, window},
		{"midway", start.Add(2 * time.Hour), 2 * time.Hour, 3 * time.Hour},
		{"expired", start.Add(6 * time.Hour), window, 0},
		{"before start", start.Add(-time.Hour), 0, window},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elapsed, remaining := SessionProgress(start, window, tt.now)
			assert.Equal(t, tt.wantElapsed, elapsed)
			assert.Equal(t, tt.wantRemaining, remaining)
		})
	}

	elapsed, remaining := SessionProgress(time.Time{}, window, start)
	assert.Zero(t, elapsed)
	assert.Zero(t, remaining)
}

func TestSessionPercentage(t *testing.T) {
	assert.InDelta(t, 40.0, SessionPercentage(2*time.Hour, 5*time.Hour), 1e-9)
	assert.Equal(t, 100.0, SessionPercentage(6*time.Hour, 5*time.Hour))
	assert.Zero(t, SessionPercentage(time.Hour, 0))
}
