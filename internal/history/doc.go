// Package history records renamer runs and their per-file outcomes in SQLite.
//
// Each invocation of the pipeline becomes one row in runs; every file the run
// touched (or skipped) becomes one row in operations. The CLI reads the store
// back for `history` and `history show`.
//
// The schema is versioned in schema.go. A version mismatch refuses to open the
// database rather than migrating; delete history.db to adopt a new schema.
package history
