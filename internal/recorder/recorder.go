package recorder

import "time"

// FetchEvent describes the outcome of fetching one indicator.
type FetchEvent struct {
	Indicator string
	Source    string
	Points    int
	LastValue float64
	Duration  time.Duration
	Err       error
}

// RunEvent describes one full recomputation.
type RunEvent struct {
	RunID    string
	Rows     int
	Columns  int
	Missing  []string
	Duration time.Duration
	Err      error
	At       time.Time
}

// Recorder keeps track of run history for monitoring.
type Recorder interface {
	RecordFetch(evt *FetchEvent) error
	RecordRun(evt *RunEvent) error
	Close() error
}
