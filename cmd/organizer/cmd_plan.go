package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	planCwd     string
	planExecute bool
)

var planCmd = &cobra.Command{
	Use:   "plan [goal]",
	Short: "Ask the model for a step-by-step plan",
	Long: `Proposes steps toward a goal without touching anything. With --execute the
proposed steps are run; a failing step is reported and the rest still run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		svc, err := openService(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		plan, err := svc.Plan(ctx, strings.Join(args, " "), planCwd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if plan.Summary != "" {
			fmt.Fprintln(out, titleStyle.Render(plan.Summary))
		}
		fmt.Fprint(out, renderHold(plan.Steps))
		if !planExecute || len(plan.Steps) == 0 {
			return nil
		}

		fmt.Fprint(out, renderResult(svc.ExecuteApproved(ctx, plan.Steps, planCwd)))
		return nil
	},
}

func init() {
	planCmd.Flags().StringVar(&planCwd, "cwd", "", "Current folder, relative to the workspace root")
	planCmd.Flags().BoolVar(&planExecute, "execute", false, "Run the proposed steps")
}
