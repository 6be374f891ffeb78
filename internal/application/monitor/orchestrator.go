package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/sumonitor/go-sumonitor/internal/data/scanner"
	"github.com/sumonitor/go-sumonitor/internal/util"
)

// Orchestrator runs the polling loop: refresh, publish, render
type Orchestrator struct {
	config     *Config
	aggregator *Aggregator
	state      *StateManager
	renderer   Renderer
	watcher    FileMonitor
	newWatcher func() (FileMonitor, error)

	// set while the data directory is unusable, so the outage is logged once
	outage bool
	// set after a failed watcher attempt, for the same reason
	watchFailed bool
}

// OrchestratorOption configures an Orchestrator
type OrchestratorOption func(*Orchestrator)

// WithWatcherFactory subscribes to file events whose arrival triggers an
// early refresh. A failed attempt is retried after every successful refresh
// until one succeeds, so a data directory created after startup still gets
// notifications.
func WithWatcherFactory(newWatcher func() (FileMonitor, error)) OrchestratorOption {
	return func(o *Orchestrator) {
		o.newWatcher = newWatcher
	}
}

// WithStateManager shares a state manager with other readers
func WithStateManager(state *StateManager) OrchestratorOption {
	return func(o *Orchestrator) {
		o.state = state
	}
}

// NewOrchestrator creates a new Orchestrator instance. renderer may be nil.
func NewOrchestrator(config *Config, aggregator *Aggregator, renderer Renderer, opts ...OrchestratorOption) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	o := &Orchestrator{
		config:     config,
		aggregator: aggregator,
		renderer:   renderer,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.state == nil {
		o.state = NewStateManager()
	}
	return o, nil
}

// State exposes the published snapshots
func (o *Orchestrator) State() *StateManager {
	return o.state
}

// Run refreshes once immediately and then on every tick until ctx is
// cancelled. All refreshes happen on the calling goroutine. It returns nil
// on cancellation.
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting usage monitor",
		util.F("dir", o.config.DataDir),
		util.F("interval", o.config.Interval),
		util.F("window", o.config.Window))

	defer func() {
		if o.watcher != nil {
			o.watcher.Close()
		}
	}()

	events := o.subscribe(ctx, o.RunOnce())

	ticker := time.NewTicker(o.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down usage monitor")
			return nil

		case <-ticker.C:
			snap := o.RunOnce()
			if events == nil {
				events = o.subscribe(ctx, snap)
			}

		case <-events:
			o.RunOnce()
			ticker.Reset(o.config.Interval)
		}
	}
}

// RunOnce performs a single refresh cycle and returns the published snapshot
func (o *Orchestrator) RunOnce() Snapshot {
	err := o.aggregator.Refresh()
	o.logRefreshError(err)

	snap := o.aggregator.Snapshot()
	if err != nil {
		snap.Err = err
	}
	o.state.Set(snap)

	if o.renderer != nil {
		if rerr := o.renderer.Render(snap); rerr != nil {
			util.LogDebug("Render failed", util.F("error", rerr))
		}
	}
	return snap
}

func (o *Orchestrator) logRefreshError(err error) {
	var cfgErr *scanner.ConfigurationError
	switch {
	case err == nil:
		if o.outage {
			util.LogInfo("Data directory is available again", util.F("dir", o.config.DataDir))
			o.outage = false
		}
	case errors.As(err, &cfgErr):
		if !o.outage {
			util.LogWarn("Data directory unavailable, retrying every tick",
				util.F("dir", cfgErr.Path), util.F("error", cfgErr.Err))
			o.outage = true
		} else {
			util.LogDebug("Data directory still unavailable", util.F("dir", cfgErr.Path))
		}
	default:
		util.LogError("Failed to refresh usage data", util.F("error", err))
	}
}

// subscribe creates the watcher if needed and starts coalescing its events.
// It returns nil while notifications are unavailable; a nil channel never
// fires in the select.
func (o *Orchestrator) subscribe(ctx context.Context, snap Snapshot) <-chan struct{} {
	if o.newWatcher == nil || snap.Err != nil {
		return nil
	}

	watcher, err := o.newWatcher()
	if err != nil {
		if !o.watchFailed {
			util.LogWarn("File notifications unavailable, polling until the next successful refresh",
				util.F("dir", o.config.DataDir), util.F("error", err))
			o.watchFailed = true
		} else {
			util.LogDebug("File notifications still unavailable", util.F("error", err))
		}
		return nil
	}
	if o.watchFailed {
		util.LogInfo("File notifications enabled", util.F("dir", o.config.DataDir))
		o.watchFailed = false
	}

	o.watcher = watcher
	return o.coalesce(ctx)
}

// coalesce folds bursts of file events into single wake-ups
func (o *Orchestrator) coalesce(ctx context.Context) <-chan struct{} {
	wake := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-o.watcher.Events():
				if !ok {
					return
				}
				util.LogDebug("File change detected", util.F("path", ev.Path), util.F("op", ev.Operation))
				select {
				case wake <- struct{}{}:
				default:
				}
			}
		}
	}()
	return wake
}
