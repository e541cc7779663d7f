package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mediarenamer/internal/history"
	"mediarenamer/internal/renamer"
)

const stampLayout = "2006-01-02 15:04"

var errNoHistory = errors.New("run history is disabled (history.enabled = false)")

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx, cmd)
			if err != nil || store == nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.StartedAt.Local().Format(stampLayout),
					run.Mode,
					run.Input,
					strconv.Itoa(run.Total),
					strconv.Itoa(run.Succeeded),
					strconv.Itoa(run.Skipped),
					strconv.Itoa(run.Failed),
					runState(run),
				})
			}
			headers := []string{"ID", "Started", "Mode", "Input", "Files", "OK", "Skipped", "Failed", "State"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show the files processed by a run (ID or unique prefix)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx, cmd)
			if err != nil || store == nil {
				return err
			}
			defer store.Close()

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ops, err := store.Operations(cmd.Context(), run.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Run "+run.ID, colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "Mode:    %s\n", run.Mode)
			fmt.Fprintf(out, "Input:   %s\n", run.Input)
			fmt.Fprintf(out, "Output:  %s\n", run.Output)
			fmt.Fprintf(out, "Started: %s\n", run.StartedAt.Local().Format(time.DateTime))
			if run.Finished() {
				fmt.Fprintf(out, "Took:    %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
			}
			fmt.Fprintf(out, "Files:   %d (%d ok, %d skipped, %d failed)\n", run.Total, run.Succeeded, run.Skipped, run.Failed)

			if len(ops) == 0 {
				return nil
			}
			rows := make([][]string, 0, len(ops))
			for _, op := range ops {
				rows = append(rows, []string{
					filepath.Base(op.Source),
					colorizeOutcome(renamer.Outcome(op.Outcome), colorize),
					op.Title,
					relativeTo(run.Output, op.Destination),
					op.Message,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"File", "Outcome", "Title", "Destination", "Note"}, rows, nil))
			return nil
		},
	}
}

// openHistory returns nil without error when no run was ever recorded.
func openHistory(ctx *commandContext, cmd *cobra.Command) (*history.Store, error) {
	cfg, err := ctx.ensureConfig(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, errNoHistory
	}
	if _, err := os.Stat(cfg.HistoryPath()); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
		return nil, nil
	}
	return history.Open(cfg.HistoryPath())
}

func runState(run history.Run) string {
	switch {
	case !run.Finished():
		return "interrupted"
	case run.Failed > 0:
		return "failed"
	default:
		return "ok"
	}
}
