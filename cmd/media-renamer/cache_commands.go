package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediarenamer/internal/lookupcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the lookup cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached lookups, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCache(ctx, cmd)
			if err != nil {
				return err
			}
			entries := cache.List()
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Cached lookups: none")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				match := "(no match)"
				if len(entry.Candidates) > 0 {
					match = entry.Candidates[0].Name
					if year := entry.Candidates[0].Year; year != "" {
						match += " (" + year + ")"
					}
				}
				rows = append(rows, []string{
					entry.Kind,
					entry.Query,
					match,
					fmt.Sprintf("%d", len(entry.Candidates)),
					entry.CachedAt.Local().Format(stampLayout),
				})
			}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
			fmt.Fprintln(out, renderTable([]string{"Kind", "Query", "First match", "Results", "Cached"}, rows, aligns))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached lookup",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCache(ctx, cmd)
			if err != nil {
				return err
			}
			count := cache.Count()
			if err := cache.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached lookup(s)\n", count)
			return nil
		},
	}
}

func openCache(ctx *commandContext, cmd *cobra.Command) (*lookupcache.Cache, error) {
	cfg, err := ctx.ensureConfig(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	logger, err := ctx.ensureLogger(cmd)
	if err != nil {
		return nil, err
	}
	return lookupcache.New(cfg.LookupCachePath(), lookupcache.WithLogger(logger)), nil
}
