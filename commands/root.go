package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"market-scout/config"
)

var current *app

var rootCmd = &cobra.Command{
	Use:          "market-scout",
	Short:        "market-scout searches Vinted listings and suggests resale prices.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func setup(cmd *cobra.Command) error {
	if current != nil {
		return nil
	}
	a, err := newApp(cmd.Context(), config.Load())
	if err != nil {
		return err
	}
	current = a
	return nil
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if current != nil {
		current.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
