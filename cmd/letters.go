package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexharvest/lexharvest/internal/harvest"
)

// newLettersCmd creates the 'letters' subcommand, which prints the default
// letter set in a form suitable for an input file.
func newLettersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "letters",
		Short: "Prints the default letter set, one per line",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, letter := range harvest.DefaultLetters() {
				fmt.Fprintln(cmd.OutOrStdout(), string(letter))
			}
		},
	}
}
