package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"market-scout/models"
	"market-scout/storage"
)

var requestMessage *string

func init() {
	requestMessage = requestAccessCmd.Flags().String("message", "", "Note for the administrator.")
	rootCmd.AddCommand(requestAccessCmd)
	rootCmd.AddCommand(checkAccessCmd)
}

var requestAccessCmd = &cobra.Command{
	Use:   "request-access <email> [--message <text>]",
	Short: "Leaves an access request for the administrator.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := strings.TrimSpace(args[0])
		if email == "" {
			return storage.ErrEmptyEmail
		}
		req := models.AccessRequest{Email: email, Message: *requestMessage, Timestamp: time.Now().UTC()}
		if err := current.events.LogAccessRequest(cmd.Context(), req); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Request sent.")
		return nil
	},
}

var checkAccessCmd = &cobra.Command{
	Use:   "access <email>",
	Short: "Shows whether an email has an active subscription.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		access, err := current.subscribers.CheckAccess(args[0], time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), describeAccess(access))
		return nil
	},
}

func describeAccess(a storage.Access) string {
	switch {
	case a.DaysRemaining == nil:
		return "No subscription found."
	case a.Active:
		return fmt.Sprintf("Active, %d day(s) remaining.", *a.DaysRemaining)
	default:
		return "Subscription expired."
	}
}
