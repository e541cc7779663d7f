// Package renamer drives a rename run: it discovers candidate files, parses
// each name into a media identity, refines the title through the lookup
// collaborator, and places the file at its library path.
//
// Files are processed one at a time. Every per-file problem (unparseable name,
// failed or empty lookup, taken destination, failed file operation) is logged
// and recorded as an Outcome; only lookup authentication failures and context
// cancellation end a run early. The candidate list is gathered before any file
// operation runs, so moving into an output tree nested under the input never
// revisits moved files.
package renamer
