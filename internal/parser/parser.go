package parser

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"mediarenamer/internal/config"
	"mediarenamer/internal/logging"
	"mediarenamer/internal/media"
	"mediarenamer/internal/pathutil"
)

// Capture group names expected in the configured patterns.
const (
	GroupName    = "name"
	GroupSeason  = "season"
	GroupEpisode = "episode"
	GroupYear    = "year"
)

// Replacement is a literal find/replace pair applied to the stem before matching.
type Replacement struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// Config holds the ordered pattern chains and the text replacements.
type Config struct {
	Replacements  []Replacement
	TVPatterns    []string
	MoviePatterns []string
}

// FromConfig converts the [parser] configuration section.
func FromConfig(cfg config.Parser) Config {
	out := Config{
		TVPatterns:    append([]string(nil), cfg.TVPatterns...),
		MoviePatterns: append([]string(nil), cfg.MoviePatterns...),
	}
	for _, r := range cfg.Replacements {
		out.Replacements = append(out.Replacements, Replacement{From: r.From, To: r.To})
	}
	return out
}

// PatternError describes a configured pattern that failed to compile.
type PatternError struct {
	Chain   string
	Pattern string
	Err     error
}

func (e PatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %v", e.Chain, e.Pattern, e.Err)
}

func (e PatternError) Unwrap() error { return e.Err }

type pattern struct {
	source string
	re     *regexp.Regexp
}

// Parser classifies filenames using the configured pattern chains.
type Parser struct {
	replacements []Replacement
	tv           []pattern
	movie        []pattern
	invalid      []PatternError
	logger       *slog.Logger
}

// New compiles the configured patterns. Patterns that fail to compile are
// logged and left out of their chain; the remaining patterns keep their order.
func New(cfg Config, logger *slog.Logger) *Parser {
	p := &Parser{
		replacements: append([]Replacement(nil), cfg.Replacements...),
		logger:       logging.NewComponentLogger(logger, "parser"),
	}
	p.tv = p.compile("tv", cfg.TVPatterns)
	p.movie = p.compile("movie", cfg.MoviePatterns)
	return p
}

func (p *Parser) compile(chain string, sources []string) []pattern {
	compiled := make([]pattern, 0, len(sources))
	for _, source := range sources {
		re, err := regexp.Compile(source)
		if err != nil {
			p.invalid = append(p.invalid, PatternError{Chain: chain, Pattern: source, Err: err})
			logging.WarnWithContext(p.logger, "invalid pattern skipped", "pattern_invalid",
				logging.String("chain", chain),
				logging.String("pattern", source),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "fix the pattern in the [parser] section of the config file"),
				logging.String(logging.FieldImpact, "files are matched against the remaining patterns only"),
			)
			continue
		}
		compiled = append(compiled, pattern{source: source, re: re})
	}
	return compiled
}

// InvalidPatterns returns the patterns that failed to compile, in declaration order.
func (p *Parser) InvalidPatterns() []PatternError {
	return append([]PatternError(nil), p.invalid...)
}

// Parse classifies the file at path. It reports false when the stem or the
// extension is missing or when no pattern in either chain matches.
func (p *Parser) Parse(path string) (media.ParsedFile, bool) {
	stem, ok := pathutil.Stem(path)
	if !ok {
		return media.ParsedFile{}, false
	}
	id, ok := p.ParseStem(stem)
	if !ok {
		return media.ParsedFile{}, false
	}
	ext, ok := pathutil.Extension(path)
	if !ok {
		return media.ParsedFile{}, false
	}
	return media.ParsedFile{Identity: id, Extension: ext}, true
}

// ParseStem applies the replacements and then the TV and movie chains to a
// filename stem. The first pattern that yields every required field wins.
func (p *Parser) ParseStem(stem string) (media.Identity, bool) {
	normalized := p.Normalize(stem)
	p.logger.Debug("applying patterns", logging.String("stem", normalized))

	for _, pat := range p.tv {
		fields, ok := match(pat.re, normalized, GroupName, GroupSeason, GroupEpisode)
		if !ok {
			continue
		}
		season, ok := parseUint(fields[GroupSeason])
		if !ok {
			continue
		}
		episode, ok := parseUint(fields[GroupEpisode])
		if !ok {
			continue
		}
		p.logger.Debug("tv pattern matched",
			logging.String("pattern", pat.source),
			logging.String("title", fields[GroupName]),
		)
		return media.Episode{Name: fields[GroupName], Season: season, Episode: episode}, true
	}

	for _, pat := range p.movie {
		fields, ok := match(pat.re, normalized, GroupName, GroupYear)
		if !ok {
			continue
		}
		year, ok := parseUint(fields[GroupYear])
		if !ok {
			continue
		}
		p.logger.Debug("movie pattern matched",
			logging.String("pattern", pat.source),
			logging.String("title", fields[GroupName]),
		)
		return media.Movie{Name: fields[GroupName], Year: year}, true
	}

	return nil, false
}

// Normalize applies the replacements in order; each one sees the output of
// the previous one.
func (p *Parser) Normalize(stem string) string {
	for _, r := range p.replacements {
		if r.From == "" {
			continue
		}
		stem = strings.ReplaceAll(stem, r.From, r.To)
	}
	return stem
}

// match returns the named groups of the first match of re in s. Groups that
// are missing from the pattern or did not participate in the match make the
// whole match fail, as does a blank name.
func match(re *regexp.Regexp, s string, groups ...string) (map[string]string, bool) {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return nil, false
	}
	fields := make(map[string]string, len(groups))
	for _, group := range groups {
		idx := re.SubexpIndex(group)
		if idx < 0 || loc[2*idx] < 0 {
			return nil, false
		}
		value := s[loc[2*idx]:loc[2*idx+1]]
		if group == GroupName && strings.TrimSpace(value) == "" {
			return nil, false
		}
		fields[group] = value
	}
	return fields, true
}

func parseUint(value string) (uint, bool) {
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}
