package monitor

import (
	"github.com/sumonitor/go-sumonitor/internal/core/model"
	"github.com/sumonitor/go-sumonitor/internal/data/store"
)

// RecordSource yields every retained usage record on each scan
type RecordSource interface {
	Scan() (*store.ScanResult, error)
}

// Renderer presents snapshots. It is called from the polling goroutine and
// must not retain the snapshot's slices for mutation.
type Renderer interface {
	Render(snapshot Snapshot) error
}

// FileMonitor watches for file changes
type FileMonitor interface {
	// Events returns a channel of file change events
	Events() <-chan model.FileEvent
	// Close stops monitoring and cleans up resources
	Close() error
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(Snapshot) error

func (f RendererFunc) Render(s Snapshot) error {
	return f(s)
}

var _ RecordSource = (*store.Store)(nil)
