// Package services defines shared utilities consumed by the renaming pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, pipeline steps, and the file being
//     processed for logging.
//   - Error markers for failures that stop a run, the Wrap helper that tags
//     them with step context, and ExitCode which maps them to CLI exit codes.
//
// Use these helpers when wiring new pipeline logic so error handling and
// observability stay uniform.
package services
