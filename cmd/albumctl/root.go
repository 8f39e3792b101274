package main

import (
	"albummai/internal/domain/catalog"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	cat := catalog.Default()

	rootCmd := &cobra.Command{
		Use:           "albumctl",
		Short:         "Albummai catalog and maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newCatalogCommand(cat))
	rootCmd.AddCommand(newQuoteCommand(cat))
	rootCmd.AddCommand(newMigrateCommand())

	return rootCmd
}
