// Package tvdb is a minimal TheTVDB v4 client: login with an API key, then
// search series or movies by name. It implements lookup.Searcher.
package tvdb
