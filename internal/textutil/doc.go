// Package textutil provides text processing helpers for turning titles into
// safe path segments.
//
// SanitizeFileName strips or replaces characters that are unsafe in file
// names. NormalizeTitle builds on it for titles returned by the metadata
// lookup: Unicode NFC composition, whitespace collapsing, and rejection of
// titles that would resolve to "." or "..".
//
// TitleSimilarity scores how well a looked-up title agrees with the title
// parsed from a filename, using term-frequency cosine similarity.
package textutil
