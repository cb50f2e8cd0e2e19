package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"silencecut/internal/history"
	"silencecut/internal/preflight"
	"silencecut/internal/staging"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check binaries, directories, and disk space",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			checkCtx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			results := preflight.RunAll(checkCtx, cfg)

			if asJSON {
				return writeJSON(cmd, results)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, line := range checkLines(results, colorize) {
				fmt.Fprintln(out, line)
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("State", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, scratchStatusLine(cfg.Paths.WorkDir, colorize))
			fmt.Fprintln(out, historyStatusLine(checkCtx, cfg.History.Enabled, func() (*history.Store, error) {
				return history.Open(cfg)
			}, colorize))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit check results as JSON")
	return cmd
}

func historyStatusLine(ctx context.Context, enabled bool, open func() (*history.Store, error), colorize bool) string {
	if !enabled {
		return renderStatusLine("Run history", statusInfo, "Disabled", colorize)
	}
	store, err := open()
	if err != nil {
		return renderStatusLine("Run history", statusError, err.Error(), colorize)
	}
	defer store.Close()
	stats, err := store.Stats(ctx)
	if err != nil {
		return renderStatusLine("Run history", statusError, err.Error(), colorize)
	}
	parts := []string{}
	for _, status := range []history.Status{history.StatusCompleted, history.StatusFailed, history.StatusRunning} {
		if n := stats[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, status))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "no runs yet")
	}
	kind := statusOK
	if stats[history.StatusFailed] > 0 {
		kind = statusWarn
	}
	return renderStatusLine("Run history", kind, strings.Join(parts, ", "), colorize)
}

func scratchStatusLine(workDir string, colorize bool) string {
	dirs, err := staging.List(workDir)
	if err != nil {
		return renderStatusLine("Scratch directories", statusError, err.Error(), colorize)
	}
	if len(dirs) == 0 {
		return renderStatusLine("Scratch directories", statusOK, "none left behind", colorize)
	}
	var total int64
	for _, dir := range dirs {
		total += dir.Size
	}
	msg := fmt.Sprintf("%d left behind (%s), oldest %s", len(dirs), humanize.IBytes(uint64(total)), humanize.Time(dirs[0].ModTime))
	return renderStatusLine("Scratch directories", statusWarn, msg, colorize)
}
