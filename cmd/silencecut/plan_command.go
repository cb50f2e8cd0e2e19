package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"silencecut/internal/pipeline"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var (
		flags  planFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the cuts a run would make without encoding",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			req, err := flags.request(cmd, cfg)
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(pipeline.NewFFmpegTools(cfg, logger), pipeline.Options{Logger: logger})
			plan, err := runner.Plan(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, plan)
			}
			printPlan(cmd.OutOrStdout(), plan)
			return nil
		},
	}
	flags.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the plan as JSON")
	return cmd
}

func printPlan(out io.Writer, plan pipeline.Plan) {
	fmt.Fprintf(out, "Input:     %s\n", plan.Input)
	fmt.Fprintf(out, "Duration:  %s\n", formatClock(plan.Duration))
	fmt.Fprintf(out, "Silences:  %d detected\n", len(plan.Silences))
	fmt.Fprintf(out, "Cut:       %s in %d cuts (%s)\n",
		formatSeconds(plan.CutSeconds), len(plan.Cuts), formatPercent(plan.CutSeconds, plan.Duration))
	fmt.Fprintf(out, "Kept:      %s in %d spans\n", formatSeconds(plan.KeptSeconds), len(plan.Keep))
	if plan.SegmentCount > 0 {
		fmt.Fprintf(out, "Subtitles: %d of %d segments survive\n", len(plan.Entries), plan.SegmentCount)
	}

	if len(plan.Cuts) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderIntervals("Cuts", plan.Cuts))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderIntervals("Keep", plan.Keep))
}
