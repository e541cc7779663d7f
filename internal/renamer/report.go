package renamer

import "time"

// Outcome is the per-file result of a run.
type Outcome string

const (
	OutcomeDone         Outcome = "done"
	OutcomePlanned      Outcome = "planned"
	OutcomeUnparsed     Outcome = "unparsed"
	OutcomeLookupFailed Outcome = "lookup_failed"
	OutcomeNoMatch      Outcome = "no_match"
	OutcomeInvalidTitle Outcome = "invalid_title"
	OutcomeExists       Outcome = "exists"
	OutcomeFailed       Outcome = "failed"
)

// Succeeded reports whether the file was placed (or would have been, in test mode).
func (o Outcome) Succeeded() bool {
	return o == OutcomeDone || o == OutcomePlanned
}

// Failed reports whether the outcome represents an error rather than a skip.
func (o Outcome) Failed() bool {
	return o == OutcomeFailed || o == OutcomeLookupFailed
}

// FileResult describes what happened to one source file.
type FileResult struct {
	Source      string
	Destination string
	Title       string
	Kind        string
	Outcome     Outcome
	Message     string
}

// Report summarizes a run.
type Report struct {
	RunID      string
	Mode       string
	Input      string
	Output     string
	StartedAt  time.Time
	FinishedAt time.Time
	Counts     map[Outcome]int
	Files      []FileResult
}

func newReport(runID, mode, input, output string, started time.Time) *Report {
	return &Report{
		RunID:     runID,
		Mode:      mode,
		Input:     input,
		Output:    output,
		StartedAt: started,
		Counts:    make(map[Outcome]int),
	}
}

func (r *Report) add(result FileResult) {
	r.Files = append(r.Files, result)
	r.Counts[result.Outcome]++
}

// Total is the number of files the run considered.
func (r *Report) Total() int {
	return len(r.Files)
}

// Succeeded counts files that were (or would be) placed.
func (r *Report) Succeeded() int {
	return r.Counts[OutcomeDone] + r.Counts[OutcomePlanned]
}

// Failures counts files whose lookup or file operation errored.
func (r *Report) Failures() int {
	return r.Counts[OutcomeFailed] + r.Counts[OutcomeLookupFailed]
}

// Skipped counts files left in place for any other reason.
func (r *Report) Skipped() int {
	return r.Total() - r.Succeeded() - r.Failures()
}

// Failed is true when any file failed.
func (r *Report) Failed() bool {
	return r.Failures() > 0
}

// Duration is the wall time of the run, or zero while it is still running.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
