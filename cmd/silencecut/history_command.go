package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"silencecut/internal/history"
	"silencecut/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return services.Wrap(services.ErrConfiguration, "history", "open", "run history is disabled (history.enabled = false)", nil)
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				if runs == nil {
					runs = []*history.Run{}
				}
				return writeJSON(cmd, runs)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Run", "Status", "Input", "Removed", "Cuts", "Elapsed", "Failure"},
				historyRows(runs),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit runs as JSON")
	return cmd
}

func historyRows(runs []*history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		removed, cuts := "-", "-"
		if run.Status == history.StatusCompleted {
			removed = formatSeconds(run.CutSeconds)
			cuts = strconv.Itoa(run.CutCount)
		}
		failure := ""
		if run.Status == history.StatusFailed {
			failure = run.ErrorMessage
			if run.FailedStage != "" {
				failure = run.FailedStage + ": " + failure
			}
		}
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			shortID(run.RunID),
			string(run.Status),
			baseName(run.InputPath),
			removed,
			cuts,
			formatElapsed(run.Elapsed()),
			truncate(failure, 60),
		})
	}
	return rows
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
