package lookup

import (
	"context"
	"log/slog"
	"strings"

	"mediarenamer/internal/logging"
	"mediarenamer/internal/lookupcache"
	"mediarenamer/internal/media"
)

// Candidate is one search result. Only Name is used to refine titles; Year
// and ID are carried for display and caching.
type Candidate struct {
	Name string
	Year string
	ID   string
}

// Searcher resolves parsed titles against a metadata provider.
type Searcher interface {
	Authenticate(ctx context.Context) error
	Search(ctx context.Context, title string, kind media.Kind) ([]Candidate, error)
}

// Passthrough returns the queried title as its only candidate.
type Passthrough struct{}

var _ Searcher = Passthrough{}

func (Passthrough) Authenticate(context.Context) error { return nil }

func (Passthrough) Search(_ context.Context, title string, _ media.Kind) ([]Candidate, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	return []Candidate{{Name: title}}, nil
}

// Cached serves repeated searches from a lookup cache. Errors and empty
// results are never stored.
type Cached struct {
	next   Searcher
	cache  *lookupcache.Cache
	logger *slog.Logger
}

var _ Searcher = (*Cached)(nil)

// NewCached wraps next with cache. A nil or disabled cache passes every call through.
func NewCached(next Searcher, cache *lookupcache.Cache, logger *slog.Logger) *Cached {
	return &Cached{next: next, cache: cache, logger: logging.NewComponentLogger(logger, "lookup")}
}

func (c *Cached) Authenticate(ctx context.Context) error {
	return c.next.Authenticate(ctx)
}

func (c *Cached) Search(ctx context.Context, title string, kind media.Kind) ([]Candidate, error) {
	if c.cache == nil || !c.cache.Enabled() {
		return c.next.Search(ctx, title, kind)
	}
	if entry, ok := c.cache.Lookup(string(kind), title); ok {
		c.logger.Debug("lookup cache hit",
			logging.String("query", title),
			logging.String("kind", string(kind)),
			logging.Int("candidate_count", len(entry.Candidates)))
		return fromCache(entry.Candidates), nil
	}

	candidates, err := c.next.Search(ctx, title, kind)
	if err != nil || len(candidates) == 0 {
		return candidates, err
	}
	if err := c.cache.Store(string(kind), title, toCache(candidates)); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, c.logger), "lookup cache store failed", "lookupcache_store_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the state directory"),
			logging.String(logging.FieldImpact, "the title will be looked up again next run"),
		)
	}
	return candidates, nil
}

func toCache(candidates []Candidate) []lookupcache.Candidate {
	out := make([]lookupcache.Candidate, len(candidates))
	for i, c := range candidates {
		out[i] = lookupcache.Candidate{Name: c.Name, Year: c.Year, ID: c.ID}
	}
	return out
}

func fromCache(candidates []lookupcache.Candidate) []Candidate {
	out := make([]Candidate, len(candidates))
	for i, c := range candidates {
		out[i] = Candidate{Name: c.Name, Year: c.Year, ID: c.ID}
	}
	return out
}
