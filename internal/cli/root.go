package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marquee-app/marquee/internal/cli/commands"
)

var version = "dev" // Will be set during build

// NewRootCmd builds the command tree over env
func NewRootCmd(env *commands.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "marquee",
		Short: "Marquee - browse the movie catalogue from your terminal",
		Long: `Marquee CLI - log in to the movies API and browse the catalogue.

The session is stored locally (see STORAGE_DRIVER) and attached to every
API request. Admin pages are only reachable with an admin session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(env.Out)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(env.Out, "marquee version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLoginCmd(env))
	rootCmd.AddCommand(commands.NewLogoutCmd(env))
	rootCmd.AddCommand(commands.NewStatusCmd(env))
	rootCmd.AddCommand(commands.NewNavigateCmd(env))
	rootCmd.AddCommand(commands.NewOpenCmd(env))
	rootCmd.AddCommand(commands.NewRoutesCmd(env))
	rootCmd.AddCommand(commands.NewMoviesCmd(env))
	rootCmd.AddCommand(commands.NewMovieCmd(env))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	if err := NewRootCmd(commands.DefaultEnv()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
