package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/marquee-app/marquee/internal/router"
)

// NewRoutesCmd creates the routes command
func NewRoutesCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes(env)
		},
	}
}

func runRoutes(env *Env) error {
	enc := yaml.NewEncoder(env.Out)
	enc.SetIndent(2)
	defer enc.Close()

	if err := enc.Encode(map[string][]router.Route{"routes": router.DefaultRoutes()}); err != nil {
		return fmt.Errorf("failed to encode routes: %w", err)
	}
	return nil
}
