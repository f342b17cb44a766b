package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/gitmetrics/internal/ui"
)

func newRecentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Lists recently searched users, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return printRecent(cmd.OutOrStdout(), a.recent.List())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Lists recently searched users, newest first",
		Args:  cobra.NoArgs,
		RunE:  cmd.RunE,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <username>",
		Short: "Removes a user from the recent searches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return a.recent.Remove(args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forgets all recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return a.recent.Clear()
		},
	})

	pick := &cobra.Command{
		Use:   "pick",
		Short: "Picks a recent search interactively and shows its profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			username, err := ui.PickRecent(a.recent.List())
			if err != nil {
				return err
			}
			return runProfile(cmd, a, username)
		},
	}
	addProfileFlags(pick)
	cmd.AddCommand(pick)

	return cmd
}

func printRecent(w io.Writer, names []string) error {
	if len(names) == 0 {
		_, err := fmt.Fprintln(w, "No recent searches")
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}
