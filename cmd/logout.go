package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the cached session and saved page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		if err := svc.gateway.SignOut(ctx); err != nil {
			return fmt.Errorf("sign out: %w", err)
		}
		if err := svc.store.Pages().ClearPage(ctx); err != nil {
			return fmt.Errorf("clear saved page: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}
