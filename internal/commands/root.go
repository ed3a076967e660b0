package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/buildinfo"
)

type globalFlags struct {
	repo     string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:     "fintrack",
		Short:   "Personal finance tracking and projections",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.repo, "repo", ".", "data directory")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override log.level from the config")

	rootCmd.AddCommand(
		newInitCommand(),
		newTxnCommand(&flags),
		newGoalCommand(&flags),
		newBudgetCommand(&flags),
		newSIPCommand(&flags),
		newSavingsCommand(),
		newTaxCommand(&flags),
		newCryptoCommand(&flags),
		newReportCommand(&flags),
		newRemindCommand(&flags),
		newImportCommand(&flags),
		newCheckCommand(&flags),
	)

	return rootCmd
}
