package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"organizer/internal/config"
	"organizer/internal/logging"
	"organizer/internal/organizer"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	rootDir    string
	verbose    bool
	timeout    time.Duration

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "organizer",
	Short: "organizer - natural-language file organizer",
	Long: `organizer manages a sandboxed workspace folder through plain-English
commands: "move report.pdf to Docs", "organize my images", "what is the size of Projects".

Deterministic phrase matchers handle common commands; a language model
(Gemini, when GEMINI_API_KEY is set) handles the rest.

Run without arguments to start the interactive shell.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if rootDir != "" {
			cfg.Workspace.Root = rootDir
		}
		if verbose {
			cfg.Logging.Level = "debug"
			cfg.Logging.DebugMode = true
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := logging.Initialize(cfg.Logging.LoggerConfig()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runShell,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "organizer.yaml", "Config file")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "r", "", "Workspace root (overrides config and WORKSPACE_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Per-command timeout")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openService builds the pipeline from the loaded config.
func openService(ctx context.Context, opts ...organizer.Option) (*organizer.Service, error) {
	return organizer.New(ctx, cfg, opts...)
}
