package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/gitmetrics/internal/domain"
	"github.com/naka-gawa/gitmetrics/internal/render"
	"github.com/naka-gawa/gitmetrics/internal/usecase"
)

func newSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <partial>",
		Short: "Suggests GitHub users matching a partial name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			gw, err := a.github()
			if err != nil {
				return err
			}
			delay, _ := cmd.Flags().GetDuration("debounce")
			asJSON, _ := cmd.Flags().GetBool("json")

			results := make(chan []domain.UserSuggestion, 1)
			suggester := usecase.NewSuggester(gw, func(_ string, s []domain.UserSuggestion) {
				select {
				case results <- s:
				default:
				}
			}, a.logger, usecase.WithDebounce(delay))
			defer suggester.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			suggester.Update(ctx, args[0])

			select {
			case s := <-results:
				if asJSON {
					return render.JSON(cmd.OutOrStdout(), s)
				}
				return render.Suggestions(cmd.OutOrStdout(), s)
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}
	cmd.Flags().Duration("debounce", usecase.DefaultSuggestDelay, "Input inactivity before the search is sent")
	cmd.Flags().Bool("json", false, "Output suggestions as JSON")
	return cmd
}
