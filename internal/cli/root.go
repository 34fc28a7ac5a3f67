package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the coach command tree.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "coach",
		Short: "Honest feedback on business ideas",
		Long: `coach sends a business idea to a large language model and prints a structured
assessment: what works, critical issues, market reality, feasibility, revenue
probability, prioritized next steps and success metrics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		NewAnalyzeCmd(),
		NewHistoryCmd(),
		newVersionCmd(version),
	)
	return rootCmd
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "coach version %s\n", version)
		},
	}
}
