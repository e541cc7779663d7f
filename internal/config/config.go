package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// ErrInvalidFile marks a configuration file that exists but cannot be decoded.
var ErrInvalidFile = errors.New("invalid config file")

// Paths contains state and log directories.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// TVDB contains configuration for TheTVDB v4 API.
type TVDB struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Lookup selects the title lookup provider and its cache.
type Lookup struct {
	Provider     string `toml:"provider"`
	CacheEnabled bool   `toml:"cache_enabled"`
	CacheTTLDays int    `toml:"cache_ttl_days"`
}

// Scan controls which files a directory input contributes.
type Scan struct {
	Extensions   []string `toml:"extensions"`
	ExcludedDirs []string `toml:"excluded_dirs"`
	MaxDepth     int      `toml:"max_depth"`
}

// Replacement is a literal find/replace pair applied before pattern matching.
type Replacement struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// Parser holds the filename patterns, tried in order.
type Parser struct {
	TVPatterns    []string      `toml:"tv_patterns"`
	MoviePatterns []string      `toml:"movie_patterns"`
	Replacements  []Replacement `toml:"replacements"`
}

// Operations configures how files are placed in the output tree.
type Operations struct {
	DefaultAction string `toml:"default_action"`
	VerifyCopies  bool   `toml:"verify_copies"`
	MinFreeGiB    int    `toml:"min_free_gib"`
}

// History toggles the run history database.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for media-renamer.
type Config struct {
	Paths      Paths      `toml:"paths"`
	TVDB       TVDB       `toml:"tvdb"`
	Lookup     Lookup     `toml:"lookup"`
	Scan       Scan       `toml:"scan"`
	Parser     Parser     `toml:"parser"`
	Operations Operations `toml:"operations"`
	History    History    `toml:"history"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A file that cannot be decoded yields an
// error matching ErrInvalidFile together with the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, resolvedPath, true, fmt.Errorf("open config: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return nil, resolvedPath, true, fmt.Errorf("%w: %s: %w", ErrInvalidFile, resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, resolvedPath, exists, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, resolvedPath, exists, err
	}

	return &cfg, resolvedPath, exists, nil
}

// decode overlays the file onto the defaults. Array tables append to an
// existing slice, so replacements are only defaulted when the file omits them.
func decode(data []byte, cfg *Config) error {
	defaults := cfg.Parser.Replacements
	cfg.Parser.Replacements = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return err
	}
	var probe struct {
		Parser struct {
			Replacements *[]Replacement `toml:"replacements"`
		} `toml:"parser"`
	}
	if err := toml.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Parser.Replacements == nil {
		cfg.Parser.Replacements = defaults
	}
	return nil
}

// LoadDefaults returns the normalized repository defaults, used when the
// configuration file is unreadable.
func LoadDefaults() (*Config, error) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath is the SQLite run history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LookupCachePath is the JSON file backing the lookup cache.
func (c *Config) LookupCachePath() string {
	return filepath.Join(c.Paths.StateDir, "lookup_cache.json")
}

// LockPath is the file guarding against concurrent runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "run.lock")
}

// LogPath returns the log file, or "" when file logging is disabled.
func (c *Config) LogPath() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "media-renamer.log")
}

// MaxDepth returns the traversal limit, or nil for unbounded traversal.
func (c *Config) MaxDepth() *int {
	if c.Scan.MaxDepth < 0 {
		return nil
	}
	depth := c.Scan.MaxDepth
	return &depth
}

// LookupEnabled reports whether titles are refined through a remote provider.
func (c *Config) LookupEnabled() bool {
	return c.Lookup.Provider != ProviderNone
}

// MinFreeBytes converts operations.min_free_gib to bytes.
func (c *Config) MinFreeBytes() uint64 {
	if c.Operations.MinFreeGiB <= 0 {
		return 0
	}
	return uint64(c.Operations.MinFreeGiB) << 30
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
