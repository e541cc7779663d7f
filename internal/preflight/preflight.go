package preflight

import (
	"context"
	"strings"

	"mediarenamer/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Targets describes the paths a run is about to use.
type Targets struct {
	Input  string
	Output string
	// Writes is false for test mode, which never touches the output tree.
	Writes bool
}

// RunAll executes the checks applicable to a run. The output directory checks
// only apply when the run writes to it.
func RunAll(ctx context.Context, cfg *config.Config, targets Targets) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckInput(targets.Input)}
	if !targets.Writes {
		return results
	}

	results = append(results, CheckDirectoryAccess("Output directory", targets.Output))
	if minFree := cfg.MinFreeBytes(); minFree > 0 {
		results = append(results, CheckFreeSpace("Output free space", targets.Output, minFree))
	}
	if strings.TrimSpace(cfg.Paths.StateDir) != "" {
		results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	}
	return results
}

// Failures returns the results that did not pass.
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// CheckLookupFromConfig evaluates the configured lookup provider.
func CheckLookupFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "TVDB"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if !cfg.LookupEnabled() {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	if strings.TrimSpace(cfg.TVDB.APIKey) == "" {
		return Result{Name: name, Detail: "Missing API key"}
	}
	return CheckTVDB(ctx, cfg.TVDB.BaseURL, cfg.TVDB.APIKey)
}
