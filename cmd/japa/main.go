package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "japa",
	Short: "japa - a mala counter for the terminal",
	Long: `japa counts mantra repetitions.

Every press adds one count to the session, today, this week and the lifetime
total. Every 108th count completes a mala. Counts are kept in .japa/ under the
workspace, and today/week totals roll over on their own.

Run without arguments to open the counter screen.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if workspace == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve workspace: %w", err)
			}
			workspace = cwd
		}

		config := zap.NewProductionConfig()
		config.OutputPaths = []string{"stderr"}
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInteractive,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Directory holding .japa/ (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <workspace>/.japa/config.yaml)")

	countCmd.Flags().BoolVarP(&countQuiet, "quiet", "q", false, "Print nothing unless a mala completes")
	statsCmd.Flags().BoolVar(&statsWatch, "watch", false, "Re-print whenever the counters change")

	configCmd.AddCommand(configInitCmd, configShowCmd)
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	rootCmd.AddCommand(countCmd, resetCmd, soundCmd, statsCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
