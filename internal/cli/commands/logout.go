package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the locally stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(env)
		},
	}
}

func runLogout(env *Env) error {
	app, err := env.app()
	if err != nil {
		return err
	}

	if err := app.Session.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	app.Client.Notifier().Success("Logged out")
	return nil
}
