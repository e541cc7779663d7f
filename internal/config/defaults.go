package config

const (
	defaultConfigPath    = "~/.config/media-renamer/config.toml"
	projectConfigName    = "media-renamer.toml"
	defaultStateDir      = "~/.local/share/media-renamer"
	defaultLogDir        = "~/.local/share/media-renamer/logs"
	defaultTVDBBaseURL   = "https://api4.thetvdb.com/v4"
	defaultTVDBTimeout   = 10
	defaultCacheTTLDays  = 30
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultRetentionDays = 30
	defaultAction        = "test"

	// ProviderTVDB refines titles through TheTVDB.
	ProviderTVDB = "tvdb"
	// ProviderNone keeps parsed titles as they are.
	ProviderNone = "none"

	defaultTVPattern    = "(?<name>.*) [Ss](?<season>[0-9]+)[Ee](?<episode>[0-9]+)"
	defaultMoviePattern = "(?<name>.*) (?<year>[0-9]+) "
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		TVDB: TVDB{
			BaseURL:        defaultTVDBBaseURL,
			TimeoutSeconds: defaultTVDBTimeout,
		},
		Lookup: Lookup{
			Provider:     ProviderTVDB,
			CacheEnabled: true,
			CacheTTLDays: defaultCacheTTLDays,
		},
		Scan: Scan{
			Extensions:   []string{"mkv", "srr"},
			ExcludedDirs: []string{"Sample", "sample", "Samples", "samples"},
			MaxDepth:     -1,
		},
		Parser: Parser{
			TVPatterns:    []string{defaultTVPattern},
			MoviePatterns: []string{defaultMoviePattern},
			Replacements:  []Replacement{{From: ".", To: " "}},
		},
		Operations: Operations{
			DefaultAction: defaultAction,
			VerifyCopies:  true,
		},
		History: History{Enabled: true},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
	}
}
