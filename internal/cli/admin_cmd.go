package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newAdminCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Toggle admin mode for the current session",
	}

	cmd.AddCommand(
		newAdminModeCmd(app, "on", true, "Apply admin authority to access checks"),
		newAdminModeCmd(app, "off", false, "View the graph as a regular user"),
	)

	return cmd
}

func newAdminModeCmd(app *App, use string, enabled bool, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, err := app.Sessions.SetAdminMode(context.Background(), currentUserID(cmd), enabled)
			if err != nil {
				return err
			}

			if !changed {
				fmt.Printf("Admin mode already %s\n", use)
				return nil
			}
			fmt.Printf("Admin mode %s\n", use)
			return nil
		},
	}

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sessions.Logout(context.Background(), currentUserID(cmd)); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}

	return cmd
}
