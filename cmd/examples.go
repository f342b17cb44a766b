package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// exampleProfiles are offered to first-time users.
var exampleProfiles = []string{"MinjaeKim9929", "insooeric", "luisgcode", "farouk-afolabi"}

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Lists example profiles to try",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Try with the following profiles:")
			for _, name := range exampleProfiles {
				fmt.Fprintf(out, "  gitmetrics profile %s\n", name)
			}
			return nil
		},
	}
}
