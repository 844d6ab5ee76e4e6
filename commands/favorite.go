package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"market-scout/models"
)

var (
	favoriteTitle *string
	favoritePrice *float64
	favoriteUser  *string
)

func init() {
	favoriteTitle = favoriteCmd.Flags().String("title", "", "Listing title.")
	favoritePrice = favoriteCmd.Flags().Float64("price", 0, "Listing price.")
	favoriteUser = favoriteCmd.Flags().String("user", "admin", "Who saved the favorite.")
	rootCmd.AddCommand(favoriteCmd)
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <link> [--title <title>] [--price <n>]",
	Short: "Saves a listing to the favorites log.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		link := strings.TrimSpace(args[0])
		if link == "" {
			return errors.New("link is required")
		}
		fav := models.Favorite{
			Timestamp: time.Now().UTC(),
			Title:     *favoriteTitle,
			Price:     *favoritePrice,
			Link:      link,
			User:      *favoriteUser,
		}
		if err := current.events.AddFavorite(cmd.Context(), fav); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", link)
		return nil
	},
}
