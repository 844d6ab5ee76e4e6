package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"market-scout/api"
	"market-scout/storage"
)

const (
	adminSearchLimit  = 300
	adminRequestLimit = 200
)

var (
	adminCode          *string
	adminLimit         *int
	adminSubscribeDays *int
)

func init() {
	adminCode = adminCmd.PersistentFlags().String("code", "", "Admin code (must match ADMIN_CODE).")
	adminLimit = adminCmd.PersistentFlags().Int("limit", 0, "Maximum rows to show (0 uses the default).")
	adminSubscribeDays = adminAddSubscriberCmd.Flags().Int("days", storage.DefaultSubscriptionDays, "Subscription length in days.")

	adminCmd.AddCommand(
		adminSearchesCmd,
		adminSubscribersCmd,
		adminAddSubscriberCmd,
		adminRequestsCmd,
		adminClearRequestsCmd,
		adminFavoritesCmd,
		adminClearFavoritesCmd,
	)
	rootCmd.AddCommand(adminCmd)
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative views over the search log, favorites, subscribers and access requests.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(cmd); err != nil {
			return err
		}
		return api.CheckAdminCode(current.cfg.AdminCode, *adminCode)
	},
}

var adminSearchesCmd = &cobra.Command{
	Use:   "searches",
	Short: "Lists recent searches, newest first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		searches, err := current.events.Searches(cmd.Context())
		if err != nil {
			return err
		}
		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"When", "Query", "Brand", "User"})
		for _, s := range limitRows(searches, adminSearchLimit) {
			t.AppendRow(table.Row{formatDate(s.Timestamp), s.Query, s.Brand, s.User})
		}
		t.Render()
		return nil
	},
}

var adminSubscribersCmd = &cobra.Command{
	Use:   "subscribers",
	Short: "Lists subscribers and their remaining days.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		subs, err := current.subscribers.List()
		if err != nil {
			return err
		}
		now := time.Now()
		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Email", "Start", "Expiry", "Status"})
		for _, s := range subs {
			t.AppendRow(table.Row{s.Email, formatDate(s.StartDate), formatDate(s.ExpiryDate), describeAccess(storage.AccessFor(s, now))})
		}
		t.Render()
		return nil
	},
}

var adminAddSubscriberCmd = &cobra.Command{
	Use:   "add-subscriber <email> [--days <n>]",
	Short: "Adds a subscriber or restarts an existing subscription.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sub, err := current.subscribers.AddOrRenew(args[0], *adminSubscribeDays, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s active until %s\n", sub.Email, formatDate(sub.ExpiryDate))
		return nil
	},
}

var adminRequestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Lists access requests, newest first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reqs, err := current.events.AccessRequests(cmd.Context())
		if err != nil {
			return err
		}
		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"When", "Email", "Message"})
		for _, r := range limitRows(reqs, adminRequestLimit) {
			t.AppendRow(table.Row{formatDate(r.Timestamp), r.Email, r.Message})
		}
		t.Render()
		return nil
	},
}

var adminClearRequestsCmd = &cobra.Command{
	Use:   "clear-requests",
	Short: "Deletes every access request.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.events.ClearAccessRequests(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Access requests cleared.")
		return nil
	},
}

var adminFavoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Lists saved favorites.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		favs, err := current.events.Favorites(cmd.Context())
		if err != nil {
			return err
		}
		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"When", "Title", "Price", "User", "Link"})
		for _, f := range favs {
			t.AppendRow(table.Row{formatDate(f.Timestamp), f.Title, euros(f.Price), f.User, f.Link})
		}
		t.Render()
		return nil
	},
}

var adminClearFavoritesCmd = &cobra.Command{
	Use:   "clear-favorites",
	Short: "Deletes every favorite.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.events.ClearFavorites(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Favorites cleared.")
		return nil
	},
}

func limitRows[T any](rows []T, fallback int) []T {
	n := *adminLimit
	if n <= 0 {
		n = fallback
	}
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
