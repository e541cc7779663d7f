// Package lookup defines how parsed titles are refined against a metadata
// provider. The renamer replaces a parsed title with the name of the first
// candidate a Searcher returns and skips the file when there are none.
package lookup
