package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"market-scout/services"
)

var describePrice *float64

func init() {
	describePrice = describeCmd.Flags().Float64("price", 10, "What you paid for the item.")
	rootCmd.AddCommand(describeCmd)
}

var describeCmd = &cobra.Command{
	Use:   "describe <path/to/photo> [--price <n>]",
	Short: "Drafts a listing title, description and price range from a photo.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if *describePrice < 0 {
			return errors.New("--price must not be negative")
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		draft, err := services.NewDescriber(current.cfg.MaxImagePixels).Describe(filepath.Base(args[0]), f, *describePrice)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), draft.Text)
		return nil
	},
}
