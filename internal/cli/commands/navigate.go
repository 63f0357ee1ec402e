package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/marquee-app/marquee/internal/router"
)

// NewNavigateCmd creates the navigate command
func NewNavigateCmd(env *Env) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "navigate <path>",
		Short: "Resolve a path through the route table and guards",
		Long: `Resolve a path the way the application would navigate to it.

Redirects (including the admin guard) are followed and the final
location is printed.

Examples:
  $ marquee navigate /admin
  $ marquee navigate /movie/42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNavigate(env, args[0], from)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Path the navigation starts from")

	return cmd
}

func runNavigate(env *Env, to, from string) error {
	app, err := env.app()
	if err != nil {
		return err
	}

	nav := router.NewDefault(app.Session)
	loc, err := nav.Resolve(to, router.Location{Path: from})
	if err != nil {
		return err
	}

	printLocation(env.Out, to, loc)
	return nil
}

func printLocation(w io.Writer, requested string, loc router.Location) {
	if loc.RedirectedFrom != "" {
		fmt.Fprintf(w, "%s -> %s (redirected)\n", requested, loc.FullPath)
	} else {
		fmt.Fprintf(w, "%s\n", loc.FullPath)
	}
	fmt.Fprintf(w, "  Component: %s\n", loc.Route.Component)

	keys := make([]string, 0, len(loc.Params))
	for k := range loc.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, loc.Params[k])
	}
}
