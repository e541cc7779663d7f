// Package lookupcache persists title lookup results in a JSON file so repeated
// runs over the same releases do not query the metadata provider again.
//
// Entries are keyed by media kind and a case-folded query. An optional TTL
// hides stale entries from Lookup without deleting them; List still shows them
// until the cache is cleared.
package lookupcache
