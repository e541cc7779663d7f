// Package parser turns release-style filenames into media identities.
//
// A stem first goes through an ordered list of literal replacements (for
// example "." to " "). It is then matched against the TV patterns, which must
// capture name, season, and episode, and finally against the movie patterns,
// which must capture name and year. Patterns are tried in declaration order and
// the first one that yields every field wins; there is no scoring. A pattern
// that does not compile, does not match, or captures a non-numeric
// season/episode/year simply hands over to the next pattern.
package parser
