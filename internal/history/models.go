package history

import "time"

// Run is one invocation of the rename pipeline.
type Run struct {
	ID         string
	Mode       string
	Input      string
	Output     string
	StartedAt  time.Time
	FinishedAt *time.Time
	Summary
}

// Finished reports whether FinishRun was recorded for the run.
func (r Run) Finished() bool {
	return r.FinishedAt != nil
}

// Summary holds the per-run counters.
type Summary struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
}

// Operation is the outcome of processing a single file.
type Operation struct {
	ID          int64
	RunID       string
	Source      string
	Destination string
	Title       string
	Kind        string
	Outcome     string
	Message     string
	CreatedAt   time.Time
}
