package main

import (
	"github.com/spf13/cobra"
)

const (
	groupProcess = "process"
	groupInspect = "inspect"
)

func newRootCommand() *cobra.Command {
	var configFlag, logLevelFlag, logFormatFlag string
	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag)

	root := &cobra.Command{
		Use:   "silencecut",
		Short: "Remove silence from videos and keep transcripts in sync",
		Long: "silencecut detects silent stretches in a recording, cuts the long ones out with ffmpeg,\n" +
			"and rewrites the matching transcript as an SRT aligned to the shortened video.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	flags.StringVar(&logLevelFlag, "log-level", "", "Override logging.level (debug, info, warn, error)")
	flags.StringVar(&logFormatFlag, "log-format", "", "Override logging.format (console, json)")

	root.AddGroup(
		&cobra.Group{ID: groupProcess, Title: "Processing:"},
		&cobra.Group{ID: groupInspect, Title: "Inspection:"},
	)
	for group, builders := range map[string][]func(*commandContext) *cobra.Command{
		groupProcess: {newCutCommand, newPlanCommand, newRemapCommand},
		groupInspect: {newHistoryCommand, newLogsCommand, newStatusCommand, newTestNotifyCommand},
	} {
		for _, build := range builders {
			cmd := build(ctx)
			cmd.GroupID = group
			root.AddCommand(cmd)
		}
	}
	root.AddCommand(newConfigCommand(ctx))

	return root
}
