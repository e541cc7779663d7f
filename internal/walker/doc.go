// Package walker lists directory trees lazily, one entry per call.
//
// The walk keeps a frontier queue of per-directory cursors instead of
// recursing: the front cursor is read until it is exhausted, and every
// subdirectory it yields is appended to the back of the queue. Directories
// named in the exclusion list are skipped entirely: neither returned nor
// entered. An optional depth budget is decremented whenever a cursor is
// exhausted, which bounds the walk by frontier progress rather than by a
// per-path depth from the root.
package walker
