package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"organizer/internal/organizer"

	"github.com/spf13/cobra"
)

var (
	askCwd  string
	askYes  bool
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [command]",
	Short: "Run one natural-language command",
	Example: `  organizer ask "move report.pdf to Docs"
  organizer ask --yes "delete old notes.txt"
  organizer ask --cwd Projects "what is the size of this folder"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		svc, err := openService(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		req := organizer.CommandRequest{Query: strings.Join(args, " "), CurrentPath: askCwd}
		resp, err := svc.Command(ctx, req)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if resp.RequiresConfirm && askYes {
			// --yes approves exactly the plan printed here.
			if !askJSON {
				fmt.Fprint(out, renderHold(resp.Actions))
			}
			req.Confirmed = true
			req.Actions = resp.Actions
			if resp, err = svc.Command(ctx, req); err != nil {
				return err
			}
		}
		if askJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}
		if resp.RequiresConfirm {
			fmt.Fprint(out, renderHold(resp.Actions))
			fmt.Fprintln(out, "Re-run with --yes to apply.")
			return nil
		}
		fmt.Fprint(out, renderResult(resp.Result))
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askCwd, "cwd", "", "Current folder, relative to the workspace root")
	askCmd.Flags().BoolVarP(&askYes, "yes", "y", false, "Apply moves and deletes without asking")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the raw response as JSON")
}
