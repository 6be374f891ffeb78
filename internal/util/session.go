package util

import (
	"time"
)

// SessionProgress returns how much of a window starting at start has
// elapsed at now and how much remains. Both are clamped to [0, window].
func SessionProgress(start time.Time, window time.Duration, now time.Time) (elapsed time.Duration, remaining time.Duration) {
	if start.IsZero() || window <= 0 {
		return 0, 0
	}

	elapsed = now.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > window {
		elapsed = window
	}
	return elapsed, window - elapsed
}

// SessionPercentage converts elapsed time into a percentage of window
func SessionPercentage(elapsed, window time.Duration) float64 {
	if window <= 0 {
		return 0
	}
	percent := elapsed.Seconds() / window.Seconds() * 100
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	return percent
}
