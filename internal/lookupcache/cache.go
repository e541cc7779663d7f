package lookupcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"mediarenamer/internal/logging"
)

// Candidate is one stored search result.
type Candidate struct {
	Name string `json:"name"`
	Year string `json:"year,omitempty"`
	ID   string `json:"id,omitempty"`
}

// Entry represents the cached search results for one query.
type Entry struct {
	Key        string      `json:"key"`
	Kind       string      `json:"kind"`
	Query      string      `json:"query"`
	Candidates []Candidate `json:"candidates"`
	CachedAt   time.Time   `json:"cached_at"`
}

// Cache provides thread-safe access to the lookup cache file.
type Cache struct {
	path    string
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]Entry
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL expires entries older than ttl. Zero keeps entries forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Key builds the cache key for a kind and query. Queries are compared
// case-insensitively with whitespace collapsed.
func Key(kind, query string) string {
	return strings.ToLower(strings.TrimSpace(kind)) + "|" + strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// New creates a cache instance. If path is empty, the cache is disabled and
// every operation is a no-op. The cache file is created on the first Store.
func New(path string, opts ...Option) *Cache {
	c := &Cache{
		path:    strings.TrimSpace(path),
		now:     time.Now,
		logger:  logging.NewNop(),
		entries: make(map[string]Entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "lookupcache")

	if c.path == "" {
		return c
	}
	if err := c.load(); err != nil {
		logging.WarnWithContext(c.logger, "failed to load lookup cache", "lookupcache_load_failed",
			logging.Error(err),
			logging.String("path", c.path),
			logging.String(logging.FieldErrorHint, "delete the file or run 'media-renamer cache clear'"),
			logging.String(logging.FieldImpact, "cache starts empty; titles are looked up again"),
		)
	}
	return c
}

// Enabled reports whether the cache is backed by a file.
func (c *Cache) Enabled() bool {
	return c.path != ""
}

// Path returns the backing file path.
func (c *Cache) Path() string {
	return c.path
}

// Lookup returns the entry for kind and query when present and not expired.
func (c *Cache) Lookup(kind, query string) (Entry, bool) {
	if c.path == "" || strings.TrimSpace(query) == "" {
		return Entry{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[Key(kind, query)]
	if !found || c.expired(entry) {
		return Entry{}, false
	}
	return entry, true
}

// Store adds or replaces the entry for kind and query and persists the cache.
func (c *Cache) Store(kind, query string, candidates []Candidate) error {
	if strings.TrimSpace(query) == "" {
		return errors.New("query cannot be empty")
	}
	if c.path == "" {
		return nil
	}

	entry := Entry{
		Key:        Key(kind, query),
		Kind:       kind,
		Query:      query,
		Candidates: append([]Candidate(nil), candidates...),
		CachedAt:   c.now().UTC(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[entry.Key] = entry
	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cached lookup result",
		logging.String("kind", kind),
		logging.String("query", query),
		logging.Int("candidate_count", len(candidates)))
	return nil
}

// Remove deletes the entry with the given key and persists the change.
func (c *Cache) Remove(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		return fmt.Errorf("key %q not found in cache", key)
	}
	delete(c.entries, key)

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	return nil
}

// List returns all entries, expired ones included, newest first.
func (c *Cache) List() []Entry {
	if c.path == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.sorted()
}

// Clear removes all entries and persists the empty cache.
func (c *Cache) Clear() error {
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	c.logger.Debug("cleared lookup cache")
	return nil
}

// Count returns the number of entries in the cache.
func (c *Cache) Count() int {
	if c.path == "" {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func (c *Cache) expired(entry Entry) bool {
	return c.ttl > 0 && c.now().Sub(entry.CachedAt) > c.ttl
}

func (c *Cache) sorted() []Entry {
	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CachedAt.Equal(entries[j].CachedAt) {
			return entries[i].Key < entries[j].Key
		}
		return entries[i].CachedAt.After(entries[j].CachedAt)
	})
	return entries
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.entries = make(map[string]Entry, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Query) == "" {
			continue
		}
		entry.Key = Key(entry.Kind, entry.Query)
		c.entries[entry.Key] = entry
	}

	c.logger.Debug("loaded lookup cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))
	return nil
}

// save writes the cache atomically through a temp file in the same directory.
func (c *Cache) save() error {
	data, err := json.MarshalIndent(c.sorted(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
