package commands

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/marquee-app/marquee/internal/router"
)

// NewOpenCmd creates the open command
func NewOpenCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Pick a page interactively and navigate to it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(env)
		},
	}
}

func runOpen(env *Env) error {
	route, err := promptRoute(router.DefaultRoutes())
	if err != nil {
		return err
	}

	path, err := fillParams(route.Path)
	if err != nil {
		return err
	}

	return runNavigate(env, path, "")
}

// promptRoute shows an interactive prompt for the user to select a page
func promptRoute(routes []router.Route) (router.Route, error) {
	type routeOption struct {
		Label string
		Route router.Route
	}

	var options []routeOption
	for _, r := range routes {
		if r.Component == "" {
			continue
		}
		label := fmt.Sprintf("%s (%s)", r.Component, r.Path)
		if r.Meta.RequiresAdmin {
			label += " [admin]"
		}
		options = append(options, routeOption{Label: label, Route: r})
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     "Select a page",
		Items:     options,
		Templates: templates,
		Size:      10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return router.Route{}, fmt.Errorf("page selection cancelled: %w", err)
	}

	return options[index].Route, nil
}

// fillParams prompts for every ":name" segment of pattern
func fillParams(pattern string) (string, error) {
	return fillPath(pattern, func(name string) (string, error) {
		prompt := promptui.Prompt{
			Label: name,
			Validate: func(input string) error {
				if strings.TrimSpace(input) == "" {
					return fmt.Errorf("%s must not be empty", name)
				}
				return nil
			},
		}
		value, err := prompt.Run()
		if err != nil {
			return "", fmt.Errorf("input cancelled: %w", err)
		}
		return value, nil
	})
}

// fillPath replaces every ":name" segment of pattern with the value returned
// by ask, escaped as a single path segment
func fillPath(pattern string, ask func(name string) (string, error)) (string, error) {
	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		name, ok := strings.CutPrefix(seg, ":")
		if !ok {
			continue
		}

		value, err := ask(name)
		if err != nil {
			return "", err
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return "", fmt.Errorf("%s must not be empty", name)
		}
		segments[i] = url.PathEscape(value)
	}
	return strings.Join(segments, "/"), nil
}
