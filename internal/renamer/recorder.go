package renamer

import (
	"context"

	"mediarenamer/internal/history"
)

// Recorder persists run progress. Failures are logged by the renamer and never
// abort a run.
type Recorder interface {
	BeginRun(ctx context.Context, report *Report) error
	RecordFile(ctx context.Context, runID string, result FileResult) error
	FinishRun(ctx context.Context, report *Report) error
}

// HistoryRecorder records runs in the history database.
type HistoryRecorder struct {
	store *history.Store
}

var _ Recorder = (*HistoryRecorder)(nil)

// NewHistoryRecorder wraps store.
func NewHistoryRecorder(store *history.Store) *HistoryRecorder {
	return &HistoryRecorder{store: store}
}

func (h *HistoryRecorder) BeginRun(ctx context.Context, report *Report) error {
	return h.store.BeginRun(ctx, history.Run{
		ID:        report.RunID,
		Mode:      report.Mode,
		Input:     report.Input,
		Output:    report.Output,
		StartedAt: report.StartedAt,
	})
}

func (h *HistoryRecorder) RecordFile(ctx context.Context, runID string, result FileResult) error {
	return h.store.RecordOperation(ctx, history.Operation{
		RunID:       runID,
		Source:      result.Source,
		Destination: result.Destination,
		Title:       result.Title,
		Kind:        result.Kind,
		Outcome:     string(result.Outcome),
		Message:     result.Message,
	})
}

func (h *HistoryRecorder) FinishRun(ctx context.Context, report *Report) error {
	return h.store.FinishRun(ctx, report.RunID, report.FinishedAt, history.Summary{
		Total:     report.Total(),
		Succeeded: report.Succeeded(),
		Skipped:   report.Skipped(),
		Failed:    report.Failures(),
	})
}
