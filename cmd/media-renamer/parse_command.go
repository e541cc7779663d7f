package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mediarenamer/internal/media"
	"mediarenamer/internal/parser"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE...",
		Short: "Show how filenames are classified, without lookups or file changes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}
			p := parser.New(parser.FromConfig(cfg.Parser), logger)

			rows := make([][]string, 0, len(args))
			for _, arg := range args {
				parsed, ok := p.Parse(arg)
				if !ok {
					rows = append(rows, []string{arg, "-", "", "", "", "", "(no match)"})
					continue
				}
				rows = append(rows, parseRow(arg, parsed))
			}
			headers := []string{"File", "Kind", "Title", "Season", "Episode", "Year", "Destination"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}
}

func parseRow(file string, parsed media.ParsedFile) []string {
	row := []string{file, parsed.Identity.Kind().String(), parsed.Identity.Title(), "", "", "", parsed.Path()}
	switch id := parsed.Identity.(type) {
	case media.Episode:
		row[3] = strconv.FormatUint(uint64(id.Season), 10)
		row[4] = strconv.FormatUint(uint64(id.Episode), 10)
	case media.Movie:
		row[5] = strconv.FormatUint(uint64(id.Year), 10)
	}
	return row
}
