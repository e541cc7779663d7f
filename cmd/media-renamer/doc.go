// Package main hosts the media-renamer CLI entrypoint and command graph.
//
// The Cobra command tree wires configuration, logging, the lookup provider and
// the run history into the renamer pipeline, and renders results as tables.
// Keep this package lean: behaviour lives in the internal packages and is only
// surfaced here through commands and flags.
package main
