package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewLoginCmd creates the login command
func NewLoginCmd(env *Env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the movies API and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), env, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set MARQUEE_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set MARQUEE_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(ctx context.Context, env *Env, email, password string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("MARQUEE_EMAIL")
	}
	if password == "" {
		password = os.Getenv("MARQUEE_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or MARQUEE_EMAIL env var)")
	}

	if password == "" {
		p, err := promptPassword(env)
		if err != nil {
			return err
		}
		password = p
	}

	app, err := env.app()
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Out, "Logging in to %s...\n", app.Client.BaseURL())

	resp, err := app.Client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := app.Session.Save(resp.Token, resp.User.IsAdmin); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	name := resp.User.Name
	if name == "" {
		name = resp.User.Email
	}
	app.Client.Notifier().Success(fmt.Sprintf("Logged in as %s", name))
	if resp.User.IsAdmin {
		fmt.Fprintln(env.Out, "  Role: Admin")
	}

	return nil
}

// promptPassword reads a password without echo when stdin is a terminal
func promptPassword(env *Env) (string, error) {
	f, ok := env.In.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or MARQUEE_PASSWORD env var)")
	}

	fmt.Fprint(env.Out, "Password: ")
	bytePassword, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(env.Out) // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}
