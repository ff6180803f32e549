package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

func newCompareCmd(opts *rootOptions) *cobra.Command {
	var instructions string

	cmd := &cobra.Command{
		Use:   "compare <runId>",
		Short: "Rank a run's methods with the configured LLM",
		Long: `Sends an excerpt of each method's passages to the extraction provider and
records its ranking on the run. Every method must have completed. A run that
already has a comparison prints the stored one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()
			return compareRun(cmd.Context(), a, args[0], instructions, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&instructions, "instructions", "", "extra guidance for the evaluator")
	return cmd
}

func compareRun(ctx context.Context, a *app, runID, instructions string, out io.Writer) error {
	result, err := a.comparison.CompareRun(ctx, runID, instructions)
	if err != nil {
		return err
	}
	renderComparison(out, result)
	return nil
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <runId> <query>",
		Short: "Search every method of a run in parallel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.search.Search(cmd.Context(), args[1], args[0], limit)
			if err != nil {
				return err
			}
			renderSearch(cmd.OutOrStdout(), resp)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "hits per method (default 10)")
	return cmd
}
