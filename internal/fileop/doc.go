// Package fileop places source files at their library destinations.
//
// Four modes exist: test (log only), move (rename, with a copy-and-remove
// fallback across filesystems), copy, and symlink (absolute target). No mode
// ever replaces an existing destination.
package fileop
