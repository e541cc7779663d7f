// Package config loads, normalizes, and validates media-renamer configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the TVDB_API_KEY environment
// fallback. Extensions are lower-cased without their leading dot so callers
// can compare them directly against pathutil.Extension output.
package config
