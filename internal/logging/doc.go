// Package logging assembles the slog loggers used across media-renamer.
//
// It owns the console and JSON handlers, level and output plumbing, and the
// context helpers that tag log lines with the run ID, pipeline step, and file
// being processed. A no-op logger is provided for tests and for components
// constructed without one.
package logging
