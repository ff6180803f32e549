package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"docbench/internal/xlsxexport"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect, export, and import recorded runs",
	}
	cmd.AddCommand(
		newHistoryListCmd(opts),
		newHistoryShowCmd(opts),
		newHistoryExportCmd(opts),
		newHistoryImportCmd(opts),
	)
	return cmd
}

func newHistoryListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			summaries, err := a.history.Summarize(cmd.Context())
			if err != nil {
				return err
			}
			renderSummaries(cmd.OutOrStdout(), summaries)
			return nil
		},
	}
}

func newHistoryShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <runId>",
		Short: "Show one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			entry, err := a.history.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderEntry(cmd.OutOrStdout(), entry)
			return nil
		},
	}
}

func newHistoryExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the history as JSON or xlsx",
		Example: `  benchctl history export > history.json
  benchctl history export --format xlsx -o history.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			var data []byte
			switch format {
			case "json":
				if data, err = a.history.Export(cmd.Context()); err != nil {
					return err
				}
				data = append(data, '\n')
			case "xlsx":
				if output == "" {
					output = xlsxexport.BuildFilename("docbench history", a.clock.Now())
				}
				entries, err := a.history.List(cmd.Context())
				if err != nil {
					return err
				}
				var buf bytes.Buffer
				if err := xlsxexport.Write(&buf, entries); err != nil {
					return err
				}
				data = buf.Bytes()
			default:
				return fmt.Errorf("unknown format %q: use json or xlsx", format)
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s wrote %s\n", green("✓"), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "export format: json or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout for json)")
	return cmd
}

func newHistoryImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Import runs from a JSON export",
		Long:  "Imported runs go in front of existing ones and replace runs with the same id. An invalid file changes nothing.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			var data []byte
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading import: %w", err)
			}

			n, err := a.history.Import(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s imported %d runs\n", green("✓"), n)
			return nil
		},
	}
}
