package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/gitmetrics/internal/render"
	"github.com/naka-gawa/gitmetrics/internal/usecase"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile <username>",
		Short: "Summarizes a GitHub user's repositories",
		Long: `Fetches the profile and the 100 most recently updated repositories of a GitHub
user and outputs the language distribution, monthly activity, top repositories
and total stars and forks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return runProfile(cmd, a, args[0])
		},
	}
	addProfileFlags(cmd)
	return cmd
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", string(render.FormatJSON), "Output format: json or text")
	cmd.Flags().IntP("limit", "n", usecase.DefaultTopReposLimit, "Number of top repositories to show")
	cmd.Flags().String("tz", "", "Time zone for monthly activity, e.g. Asia/Tokyo (default local)")
}

// profileSettings reads the flags added by addProfileFlags.
func profileSettings(cmd *cobra.Command) (render.Format, []usecase.AggregatorOption, error) {
	formatStr, _ := cmd.Flags().GetString("format")
	format, err := render.ParseFormat(formatStr)
	if err != nil {
		return "", nil, err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return "", nil, fmt.Errorf("--limit must not be negative")
	}
	opts := []usecase.AggregatorOption{usecase.WithTopLimit(limit)}

	if tz, _ := cmd.Flags().GetString("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return "", nil, fmt.Errorf("invalid --tz %q: %w", tz, err)
		}
		opts = append(opts, usecase.WithLocation(loc))
	}
	return format, opts, nil
}

// runProfile performs one query through a session, so that a successful
// lookup is remembered, and renders the result.
func runProfile(cmd *cobra.Command, a *app, username string) error {
	format, opts, err := profileSettings(cmd)
	if err != nil {
		return err
	}
	gw, err := a.github()
	if err != nil {
		return err
	}

	aggregator := usecase.NewAggregator(gw, a.logger, opts...)
	session := usecase.NewSession(aggregator, a.recent, a.logger)

	result, err := session.Query(cmd.Context(), username)
	if err != nil {
		return a.queryError(err)
	}
	return render.Profile(cmd.OutOrStdout(), result, format)
}
