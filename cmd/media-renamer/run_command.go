package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mediarenamer/internal/config"
	"mediarenamer/internal/fileop"
	"mediarenamer/internal/history"
	"mediarenamer/internal/logging"
	"mediarenamer/internal/lookup"
	"mediarenamer/internal/lookup/tvdb"
	"mediarenamer/internal/lookupcache"
	"mediarenamer/internal/parser"
	"mediarenamer/internal/preflight"
	"mediarenamer/internal/renamer"
	"mediarenamer/internal/runlock"
	"mediarenamer/internal/services"
)

type runOptions struct {
	input    string
	output   string
	action   string
	maxDepth int
	noLookup bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Rename and organize media files into the output library",
		Long: `Walk the input (a file or directory), parse every file with a configured
extension, refine its title through the lookup provider and place it at its
library path under the output directory.

Actions: test (log only, the default), move, copy, symlink.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-depth") {
				opts.maxDepth = cfg.Scan.MaxDepth
			}
			return runRename(cmd, cfg, logger, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Input file or directory")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output library directory")
	cmd.Flags().StringVarP(&opts.action, "action", "a", "", "Action: test, move, copy or symlink (default from operations.default_action)")
	cmd.Flags().IntVarP(&opts.maxDepth, "max-depth", "m", -1, "Directory traversal depth limit (negative for unlimited)")
	cmd.Flags().BoolVar(&opts.noLookup, "no-lookup", false, "Keep parsed titles instead of querying the lookup provider")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runRename(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, opts runOptions) error {
	action := strings.TrimSpace(opts.action)
	if action == "" {
		action = cfg.Operations.DefaultAction
	}
	mode, err := fileop.ParseMode(action)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "action", "", "", err)
	}
	useLookup := !opts.noLookup && cfg.LookupEnabled()
	if useLookup {
		if err := cfg.ValidateLookup(); err != nil {
			return services.Wrap(services.ErrConfiguration, "lookup", "", "", err)
		}
	}

	input, err := config.ExpandPath(opts.input)
	if err != nil {
		return fmt.Errorf("resolve input: %w", err)
	}
	output, err := config.ExpandPath(opts.output)
	if err != nil {
		return fmt.Errorf("resolve output: %w", err)
	}

	writes := mode != fileop.ModeTest
	if writes {
		lock, err := runlock.Acquire(cfg.LockPath())
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("failed to release run lock", logging.Error(err))
			}
		}()
		if err := os.MkdirAll(output, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	results := preflight.RunAll(cmd.Context(), cfg, preflight.Targets{Input: input, Output: output, Writes: writes})
	if failed := preflight.Failures(results); len(failed) > 0 {
		colorize := shouldColorize(cmd.ErrOrStderr())
		for _, r := range failed {
			fmt.Fprintln(cmd.ErrOrStderr(), renderStatusLine(r.Name, statusError, r.Detail, colorize))
		}
		if writes {
			return services.Wrap(services.ErrPreflight, "preflight failed", failed[0].Name, failed[0].Detail, nil)
		}
	}

	if removed := logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, time.Now(), logging.RetentionTarget{
		Dir:     cfg.Paths.LogDir,
		Pattern: "*.log",
		Exclude: []string{cfg.LogPath()},
	}); removed > 0 {
		logger.Debug("pruned old logs", logging.Int("files", removed))
	}

	searcher, err := buildSearcher(cfg, logger, useLookup)
	if err != nil {
		return err
	}

	var recorder renamer.Recorder
	if cfg.History.Enabled {
		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "delete history.db or set history.enabled = false"),
				logging.String(logging.FieldImpact, "this run is not recorded"))
		} else {
			defer store.Close()
			recorder = renamer.NewHistoryRecorder(store)
		}
	}

	r, err := renamer.New(renamer.Dependencies{
		Parser:       parser.New(parser.FromConfig(cfg.Parser), logger),
		Searcher:     searcher,
		Operator:     fileop.New(mode, fileop.WithVerifyCopies(cfg.Operations.VerifyCopies), fileop.WithLogger(logger)),
		Recorder:     recorder,
		Logger:       logger,
		Extensions:   cfg.Scan.Extensions,
		ExcludedDirs: cfg.Scan.ExcludedDirs,
	})
	if err != nil {
		return err
	}

	req := renamer.Request{Input: input, Output: output}
	if opts.maxDepth >= 0 {
		depth := opts.maxDepth
		req.MaxDepth = &depth
	}
	report, runErr := r.Run(cmd.Context(), req)
	if report != nil && report.Total() > 0 {
		printReport(cmd.OutOrStdout(), report, shouldColorize(cmd.OutOrStdout()))
	}
	if runErr != nil {
		return runErr
	}
	if report.Failed() {
		return services.Wrap(services.ErrFileOperation, "apply", "", fmt.Sprintf("%d file(s) failed; see the log for details", report.Failures()), nil)
	}
	return nil
}

func buildSearcher(cfg *config.Config, logger *slog.Logger, useLookup bool) (lookup.Searcher, error) {
	if !useLookup {
		return lookup.Passthrough{}, nil
	}
	client, err := tvdb.New(cfg.TVDB.APIKey, cfg.TVDB.BaseURL,
		tvdb.WithTimeout(time.Duration(cfg.TVDB.TimeoutSeconds)*time.Second))
	if err != nil {
		return nil, err
	}
	if !cfg.Lookup.CacheEnabled {
		return client, nil
	}
	cache := lookupcache.New(cfg.LookupCachePath(),
		lookupcache.WithTTL(time.Duration(cfg.Lookup.CacheTTLDays)*24*time.Hour),
		lookupcache.WithLogger(logger))
	return lookup.NewCached(client, cache, logger), nil
}

func printReport(out io.Writer, report *renamer.Report, colorize bool) {
	rows := make([][]string, 0, len(report.Files))
	for _, f := range report.Files {
		rows = append(rows, []string{
			filepath.Base(f.Source),
			colorizeOutcome(f.Outcome, colorize),
			relativeTo(report.Output, f.Destination),
			f.Message,
		})
	}
	fmt.Fprintln(out, renderTable([]string{"File", "Outcome", "Destination", "Note"}, rows, nil))
	fmt.Fprintf(out, "Run %s (%s): %d file(s), %d succeeded, %d skipped, %d failed in %s\n",
		shortID(report.RunID),
		report.Mode,
		report.Total(),
		report.Succeeded(),
		report.Skipped(),
		report.Failures(),
		report.Duration().Round(time.Millisecond),
	)
}

func relativeTo(root, path string) string {
	if path == "" {
		return ""
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
