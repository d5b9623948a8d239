// Package cmd defines and implements the CLI commands for the lexharvest
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lexharvest/lexharvest/internal/logging"
	"github.com/lexharvest/lexharvest/pkg/config"
)

var (
	cfgFile string
	verbose bool
	logger  *zap.Logger
)

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexharvest",
		Short: "Harvests a paginated browse index into per-letter corpus files.",
		Long: `lexharvest crawls an alphabetical browse index one letter at a time,
follows each letter's pagination chain, and merges the entries it finds into a
deduplicated, case-insensitively sorted file per letter.`,
		SilenceUsage: true,

		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			l, err := logging.New(verbose)
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			logger = l
			config.Init(cfgFile, logger)
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable development logging")

	cmd.AddCommand(newHarvestCmd())
	cmd.AddCommand(newLettersCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
