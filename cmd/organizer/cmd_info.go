package main

import (
	"fmt"
	"runtime"

	"organizer/internal/perception"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the actions commands map to",
	Args:  cobra.NoArgs,
	// No config or logging needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		md := "# Actions\n\n" + perception.ActionCatalogueMarkdown()
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		rendered, err := r.Render(md)
		if err != nil {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s, %s/%s)\n",
			cfg.Name, cfg.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	},
}
