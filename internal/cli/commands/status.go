package commands

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command
func NewStatusCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"whoami"},
		Short:   "Show the locally stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(env)
		},
	}
}

func runStatus(env *Env) error {
	app, err := env.app()
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Out, "API:     %s\n", app.Client.BaseURL())
	fmt.Fprintf(env.Out, "Storage: %s\n", app.Config.Storage.Driver)

	token := app.Session.Token()
	if token == "" {
		fmt.Fprintln(env.Out, "Session: not logged in")
		return nil
	}

	fmt.Fprintln(env.Out, "Session: logged in")
	if app.Session.IsAdmin() {
		fmt.Fprintln(env.Out, "Role:    admin")
	} else {
		fmt.Fprintln(env.Out, "Role:    user")
	}

	// Display only. The signature is not checked and nothing here grants access.
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		app.Logger.Debug().Err(err).Msg("Stored token is not a JWT")
		return nil
	}

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		fmt.Fprintf(env.Out, "Subject: %s\n", sub)
	}
	if email, ok := claims["email"].(string); ok {
		fmt.Fprintf(env.Out, "Email:   %s\n", email)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		state := "valid"
		if exp.Before(time.Now()) {
			state = "expired"
		}
		fmt.Fprintf(env.Out, "Expires: %s (%s)\n", exp.UTC().Format(time.RFC3339), state)
	}

	return nil
}
