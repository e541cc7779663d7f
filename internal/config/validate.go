package config

import (
	"errors"
	"fmt"
)

var validActions = map[string]struct{}{
	"test":    {},
	"move":    {},
	"copy":    {},
	"symlink": {},
}

// Validate ensures the configuration is usable. Lookup credentials are checked
// separately by ValidateLookup because only runs with lookup enabled need them.
func (c *Config) Validate() error {
	if len(c.Scan.Extensions) == 0 {
		return errors.New("scan.extensions must list at least one extension")
	}
	if len(c.Parser.TVPatterns) == 0 && len(c.Parser.MoviePatterns) == 0 {
		return errors.New("parser: at least one tv or movie pattern is required")
	}
	for i, r := range c.Parser.Replacements {
		if r.From == "" {
			return fmt.Errorf("parser.replacements[%d].from must not be empty", i)
		}
	}
	switch c.Lookup.Provider {
	case ProviderTVDB, ProviderNone:
	default:
		return fmt.Errorf("lookup.provider: unsupported value %q (want %q or %q)", c.Lookup.Provider, ProviderTVDB, ProviderNone)
	}
	if _, ok := validActions[c.Operations.DefaultAction]; !ok {
		return fmt.Errorf("operations.default_action: unsupported value %q", c.Operations.DefaultAction)
	}
	if c.Operations.MinFreeGiB < 0 {
		return errors.New("operations.min_free_gib must be zero or positive")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// ValidateLookup checks the credentials required by the configured provider.
func (c *Config) ValidateLookup() error {
	if c.Lookup.Provider != ProviderTVDB {
		return nil
	}
	if c.TVDB.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("tvdb.api_key is required. Set TVDB_API_KEY env var or edit %s (create with 'media-renamer config init'), or pass --no-lookup", defaultPath)
	}
	return nil
}
