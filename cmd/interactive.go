package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/gitmetrics/internal/domain"
	"github.com/naka-gawa/gitmetrics/internal/render"
	"github.com/naka-gawa/gitmetrics/internal/usecase"
)

func newInteractiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Reads usernames from stdin and shows each profile",
		Long: `Reads one line at a time from stdin.

  <username>   look up a profile; a newer lookup supersedes one still in flight
               and any pending suggestion search
  ?<partial>   suggest users matching partial
  recent       list recent searches

Results of superseded lookups are never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			format, opts, err := profileSettings(cmd)
			if err != nil {
				return err
			}
			gw, err := a.github()
			if err != nil {
				return err
			}
			delay, _ := cmd.Flags().GetDuration("debounce")

			ctx := cmd.Context()
			out := &lockedWriter{w: cmd.OutOrStdout()}

			session := usecase.NewSession(usecase.NewAggregator(gw, a.logger, opts...), a.recent, a.logger)
			session.OnCommit(func(st usecase.State) {
				out.write(func(w io.Writer) error {
					if st.Err != nil {
						_, err := fmt.Fprintf(w, "%s: %s\n", st.Username, domain.UserMessage(st.Err))
						return err
					}
					return render.Profile(w, st.Profile, format)
				})
			})

			suggester := usecase.NewSuggester(gw, func(query string, s []domain.UserSuggestion) {
				if query == "" {
					return
				}
				out.write(func(w io.Writer) error { return render.Suggestions(w, s) })
			}, a.logger, usecase.WithDebounce(delay))
			defer suggester.Close()

			var wg sync.WaitGroup
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				switch {
				case line == "":
					continue
				case strings.HasPrefix(line, "?"):
					suggester.Update(ctx, line[1:])
				case line == "recent":
					out.write(func(w io.Writer) error { return printRecent(w, a.recent.List()) })
				default:
					// A submitted name hides suggestions still waiting on the debounce.
					suggester.Update(ctx, "")
					// Begin here, not in the goroutine, so submission order decides which query wins.
					run := session.Begin(ctx, line)
					wg.Add(1)
					go func() {
						defer wg.Done()
						// Committed outcomes are printed by OnCommit; superseded ones are dropped.
						_, _ = run()
					}()
				}
			}
			wg.Wait()
			return scanner.Err()
		},
	}
	addProfileFlags(cmd)
	cmd.Flags().Duration("debounce", usecase.DefaultSuggestDelay, "Input inactivity before a suggestion search is sent")
	return cmd
}

// lockedWriter serializes output from the session and the suggester.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) write(fn func(io.Writer) error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = fn(l.w)
}
