// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Every call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gitmetrics",
		Short: "A CLI tool to visualize a GitHub user's repositories.",
		Long: `gitmetrics looks up a GitHub user and summarizes their public repositories:
language distribution, repositories created per month, top repositories and
total stars and forks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags, available to all commands.
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	root.PersistentFlags().String("api-url", "", "GitHub REST API base URL (default https://api.github.com/)")
	root.PersistentFlags().Duration("timeout", 0, "Timeout for a single GitHub request (default 15s)")
	root.PersistentFlags().String("recent-file", "", "Path of the recent searches file")

	root.AddCommand(newProfileCmd())
	root.AddCommand(newSuggestCmd())
	root.AddCommand(newRecentCmd())
	root.AddCommand(newInteractiveCmd())
	root.AddCommand(newExamplesCmd())
	return root
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
