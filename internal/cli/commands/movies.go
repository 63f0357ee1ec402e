package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewMoviesCmd creates the movies command
func NewMoviesCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "movies",
		Aliases: []string{"ls"},
		Short:   "List movies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMovies(cmd.Context(), env)
		},
	}
}

// NewMovieCmd creates the movie command
func NewMovieCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "movie <id>",
		Short: "Show a single movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMovie(cmd.Context(), env, args[0])
		},
	}
}

func runMovies(ctx context.Context, env *Env) error {
	app, err := env.app()
	if err != nil {
		return err
	}

	movies, err := app.Client.ListMovies(ctx)
	if err != nil {
		return fmt.Errorf("failed to list movies: %w", err)
	}

	if len(movies) == 0 {
		fmt.Fprintln(env.Out, "No movies found.")
		return nil
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tYEAR")
	fmt.Fprintln(w, "──\t─────\t────")

	for _, m := range movies {
		year := "-"
		if m.ReleaseYear > 0 {
			year = fmt.Sprint(m.ReleaseYear)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, m.Title, year)
	}

	return w.Flush()
}

func runMovie(ctx context.Context, env *Env, id string) error {
	app, err := env.app()
	if err != nil {
		return err
	}

	movie, err := app.Client.GetMovie(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get movie %s: %w", id, err)
	}

	fmt.Fprintf(env.Out, "%s\n", movie.Title)
	if movie.ReleaseYear > 0 {
		fmt.Fprintf(env.Out, "  Year: %d\n", movie.ReleaseYear)
	}
	if movie.Description != "" {
		fmt.Fprintf(env.Out, "  %s\n", movie.Description)
	}
	return nil
}
