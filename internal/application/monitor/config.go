package monitor

import (
	"fmt"
	"time"

	"github.com/sumonitor/go-sumonitor/internal/core/constants"
	"github.com/sumonitor/go-sumonitor/internal/core/model"
	"github.com/sumonitor/go-sumonitor/internal/core/pricing"
)

// Config contains configuration for the monitor
type Config struct {
	// Data directory holding the project logs
	DataDir string

	// Plan identifier: pro, max5 or max20
	Plan string

	// Session window length and how far back records are kept
	Window   time.Duration
	Lookback time.Duration

	// Polling cadence
	Interval time.Duration

	// Display settings
	Timezone string

	// Optional pricing table file; empty uses the built-in table
	PricingFile string

	// Performance settings
	Concurrency int

	// Use file system notifications to refresh between ticks
	Watch bool
}

// Validate fills defaults and rejects values that cannot work
func (c *Config) Validate() error {
	if c.DataDir == "" {
		c.DataDir = constants.DefaultDataDir
	}
	if c.Plan == "" {
		c.Plan = model.PlanPro
	}
	if !pricing.IsValidPlan(c.Plan) {
		return fmt.Errorf("unknown plan %q (valid: %v)", c.Plan, pricing.PlanNames())
	}
	if c.Window == 0 {
		c.Window = constants.SessionDuration
	}
	if c.Window < 0 {
		return fmt.Errorf("session window must be positive, got %v", c.Window)
	}
	if c.Lookback == 0 {
		c.Lookback = constants.DefaultLookback
	}
	if c.Lookback < 0 {
		return fmt.Errorf("lookback must not be negative, got %v", c.Lookback)
	}
	if c.Interval == 0 {
		c.Interval = constants.DefaultPollInterval
	}
	if c.Interval < constants.MinPollInterval {
		return fmt.Errorf("interval must be at least %v, got %v", constants.MinPollInterval, c.Interval)
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.Concurrency <= 0 {
		c.Concurrency = constants.DefaultParseConcurrency
	}
	return nil
}
