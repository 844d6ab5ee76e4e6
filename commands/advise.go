package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"market-scout/services"
)

func init() {
	rootCmd.AddCommand(adviseCmd)
}

var adviseCmd = &cobra.Command{
	Use:   "advise <question>",
	Short: "Answers a resale question from the FAQ.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		answer, err := services.NewAdvisor(current.catalog.FAQ).Answer(joinArgs(args))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}
