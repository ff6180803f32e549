// Package cli implements the benchctl commands. They run the same services
// as the HTTP server in-process, against the configured history backend.
package cli

import (
	"io"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	methodsFile   string
	historyDriver string
	noColor       bool
}

// NewRootCmd builds the benchctl command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "benchctl",
		Short: "Benchmark document parsing methods of the hosted files API",
		Long: `benchctl uploads a document once per parsing method, follows each method until
it finishes, and records the run in history. Recorded runs can be searched,
compared with an LLM, and exported.

Configuration comes from DOCBENCH_* environment variables, as for the server.`,
		SilenceUsage: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	cmd.PersistentFlags().StringVar(&opts.methodsFile, "methods", "", "YAML method catalog (default: built-in basic, vision, agentic)")
	cmd.PersistentFlags().StringVar(&opts.historyDriver, "history", "", "history driver override: memory, file, s3, postgres (default: file unless configured)")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newRunCmd(opts),
		newResumeCmd(opts),
		newHistoryCmd(opts),
		newCompareCmd(opts),
		newSearchCmd(opts),
		newTokenCmd(opts),
	)
	return cmd
}

// Execute runs benchctl with the process arguments.
func Execute(out io.Writer) error {
	return NewRootCmd(out).Execute()
}
