package constants

import "time"

const (
	// Session window, matching the plan reset cadence
	SessionDuration = 5 * time.Hour

	// Records older than this are never loaded
	DefaultLookback = 24 * time.Hour

	// Polling cadence of the monitor loop
	DefaultPollInterval = 1 * time.Second
	MinPollInterval     = 100 * time.Millisecond

	// Upper bound on parallel file parsing within one scan
	DefaultParseConcurrency = 4
)
