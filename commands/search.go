package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"market-scout/services"
	"market-scout/storage"
)

var (
	searchBrand    *string
	searchMinPrice *float64
	searchMaxPrice *float64
	searchPages    *int
	searchPause    *float64
	searchUser     *string
	searchCSV      *string
)

func init() {
	searchBrand = searchCmd.Flags().String("brand", services.BrandAll, "Only keep titles containing this brand.")
	searchMinPrice = searchCmd.Flags().Float64("min-price", 0, "Lowest price to keep.")
	searchMaxPrice = searchCmd.Flags().Float64("max-price", 0, "Highest price to keep (0 means no limit).")
	searchPages = searchCmd.Flags().Int("pages", 0, "Result pages to fetch (defaults to PAGES_TO_SCRAPE).")
	searchPause = searchCmd.Flags().Float64("pause", -1, "Seconds to wait between pages (defaults to PAUSE_SECONDS).")
	searchUser = searchCmd.Flags().String("user", "cli", "Name recorded in the search log.")
	searchCSV = searchCmd.Flags().String("csv", "", "Also write the annotated results to this CSV file.")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query> [--brand <brand>] [--min-price <n>] [--max-price <n>] [--csv <path>]",
	Short: "Searches the marketplace and rates every listing against the market average.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		market, err := current.marketService()
		if err != nil {
			return err
		}

		pages := *searchPages
		if pages == 0 {
			pages = current.cfg.PagesToScrape
		}
		pause := current.cfg.Pause()
		if *searchPause >= 0 {
			pause = time.Duration(*searchPause * float64(time.Second))
		}

		res, err := market.Search(cmd.Context(), services.SearchRequest{
			Query: joinArgs(args),
			Filter: services.Filter{
				Brand:    *searchBrand,
				MinPrice: *searchMinPrice,
				MaxPrice: *searchMaxPrice,
			},
			Pages: pages,
			Pause: pause,
			User:  *searchUser,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		renderStats(out, res.Stats, res.Saturation)
		if len(res.Listings) > 0 {
			renderListings(out, res.Listings)
		}

		if *searchCSV != "" {
			w, err := storage.NewCSVWriter(*searchCSV)
			if err != nil {
				return err
			}
			if err := w.Write(res.Listings); err != nil {
				_ = w.Close()
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Results written to %s\n", *searchCSV)
		}
		return nil
	},
}
