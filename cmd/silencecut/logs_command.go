package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"silencecut/internal/logging"
	"silencecut/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
		runID  string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent log records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.LogDir, logging.LogFileName)
			filter := logs.RunFilter(runID)

			records, offset, err := logs.Last(path, lines, filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 && !follow {
				fmt.Fprintf(out, "No log records in %s\n", path)
				return nil
			}
			for _, record := range records {
				fmt.Fprintln(out, record.String())
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, offset, 500*time.Millisecond, filter, func(r logs.Record) {
				fmt.Fprintln(out, r.String())
			})
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of records to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new records until interrupted")
	cmd.Flags().StringVar(&runID, "run", "", "Only show records for this run id")
	return cmd
}
