package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"docbench/internal/domain"
	"docbench/internal/poller"
	"docbench/internal/service"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		sync    bool
		compare bool
	)

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Benchmark a document with every method",
		Long: `Uploads the document once per method.

By default all methods start at once and are polled independently; each
status change is printed as it happens and the run is recorded in history.
With --sync the methods run one after another so timings do not compete
for the network, and the full result is printed at the end.`,
		Example: `  benchctl run report.pdf
  benchctl run scan.png --sync
  benchctl run report.pdf --compare`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			input, err := readInput(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			var entry *domain.HistoryEntry
			if sync {
				entry, err = a.benchmark.RunBenchmark(ctx, input)
				if err != nil {
					return err
				}
			} else {
				started, err := a.benchmark.StartAll(ctx, input)
				if err != nil {
					return err
				}
				progress := newProgressWriter(out, a.clock)
				progress.update(started)
				if entry, err = follow(ctx, a, started.RunID, progress); err != nil {
					return err
				}
			}

			fmt.Fprintln(out)
			renderEntry(out, entry)
			if compare {
				return compareRun(ctx, a, entry.RunID, "", out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&sync, "sync", false, "run methods one at a time and wait for each")
	cmd.Flags().BoolVar(&compare, "compare", false, "run the AI comparison when every method completed")
	return cmd
}

func newResumeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resume <runId>",
		Short: "Continue polling a recorded run",
		Long:  "Restarts polling for every method of the run that has not reached a terminal status.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			entry, err := follow(ctx, a, args[0], newProgressWriter(out, a.clock))
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			renderEntry(out, entry)
			return nil
		},
	}
}

// follow polls runID until every method is terminal or ctx ends, printing a
// progress line per update.
func follow(ctx context.Context, a *app, runID string, progress *progressWriter) (*domain.HistoryEntry, error) {
	p := poller.New(runID, poller.Deps{
		History:  a.history,
		Fetcher:  a.files,
		Clock:    a.clock,
		Interval: a.cfg.Benchmark.PollInterval,
		Timeout:  a.cfg.Benchmark.Timeout,
		OnUpdate: progress.update,
	})
	if err := p.Start(ctx); err != nil {
		return nil, err
	}
	defer p.Stop()

	if err := p.Wait(ctx); err != nil {
		progress.printf("%s polling interrupted; continue with: benchctl resume %s\n", yellow("!"), runID)
	}
	// Interrupted runs still print what history has so far.
	return a.history.GetByID(context.WithoutCancel(ctx), runID)
}

func readInput(path string) (service.RunInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return service.RunInput{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return service.RunInput{}, fmt.Errorf("%s is empty", path)
	}
	name := filepath.Base(path)
	return service.RunInput{
		File:        data,
		FileName:    name,
		ContentType: service.DetectContentType("", name, data),
	}, nil
}
