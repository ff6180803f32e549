package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"

	"docbench/internal/domain"
)

var (
	bold    = color.New(color.Bold).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	cyan    = color.New(color.FgCyan).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	magenta = color.New(color.FgMagenta, color.Bold).SprintFunc()
)

func colorStatus(s domain.Status) string {
	switch s {
	case domain.StatusIndexingCompleted:
		return green(string(s))
	case domain.StatusIndexingFailed, domain.StatusUploadFailed:
		return red(string(s))
	case domain.StatusTimeout:
		return yellow(string(s))
	default:
		return cyan(string(s))
	}
}

func formatDuration(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return (time.Duration(ms) * time.Millisecond).Round(100 * time.Millisecond).String()
}

// renderEntry writes a run header and one row per method. Metrics appear
// only for completed methods.
func renderEntry(w io.Writer, e *domain.HistoryEntry) {
	fmt.Fprintf(w, "%s %s  %s (%d bytes)\n", bold("Run"), e.RunID, e.OriginalFile.Name, e.OriginalFile.Size)
	fmt.Fprintf(w, "%s %s", faint("started"), e.StartedAt.Local().Format(time.RFC3339))
	if e.CompletedAt != nil {
		fmt.Fprintf(w, "  %s %s", faint("completed"), e.CompletedAt.Local().Format(time.RFC3339))
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tSTATUS\tTIME\tPASSAGES\tCHARS\tPAGES\tNOTE")
	for i := range e.Methods {
		m := &e.Methods[i]
		passages, chars, pages := "-", "-", "-"
		if m.Status == domain.StatusIndexingCompleted {
			passages = fmt.Sprint(m.PassageCount)
			chars = fmt.Sprint(m.ContentCharsTotal)
			if m.MetaBreakdown != nil {
				pages = fmt.Sprint(m.MetaBreakdown.PageCount)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.Label, colorStatus(m.Status), formatDuration(m.ProcessingTimeMs), passages, chars, pages, m.FailedReason)
	}
	_ = tw.Flush()

	if e.AiComparison != nil {
		renderComparison(w, e.AiComparison)
	}
}

// renderProgress writes a single line summarizing every method's status.
func renderProgress(w io.Writer, e *domain.HistoryEntry, now time.Time) {
	parts := make([]string, 0, len(e.Methods))
	for i := range e.Methods {
		parts = append(parts, fmt.Sprintf("%s=%s", e.Methods[i].Method, colorStatus(e.Methods[i].Status)))
	}
	elapsed := now.Sub(e.StartedAt).Round(time.Second)
	fmt.Fprintf(w, "[%s] %s\n", elapsed, strings.Join(parts, "  "))
}

// progressWriter serializes output while a run is followed. Method loops
// report concurrently.
type progressWriter struct {
	mu  sync.Mutex
	w   io.Writer
	clk clockwork.Clock
}

func newProgressWriter(w io.Writer, clk clockwork.Clock) *progressWriter {
	return &progressWriter{w: w, clk: clk}
}

// update prints one progress line for e.
func (p *progressWriter) update(e *domain.HistoryEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	renderProgress(p.w, e, p.clk.Now())
}

func (p *progressWriter) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

func renderSummaries(w io.Writer, summaries []domain.RunSummary) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tFILE\tSTARTED\tMETHODS\tAI")
	for _, s := range summaries {
		statuses := make([]string, 0, len(s.Methods))
		for _, m := range s.Methods {
			statuses = append(statuses, m.Method+":"+colorStatus(m.Status))
		}
		ai := ""
		if s.HasComparison {
			ai = magenta("yes")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.RunID, s.FileName, s.StartedAt.Local().Format("2006-01-02 15:04"), strings.Join(statuses, " "), ai)
	}
	_ = tw.Flush()
}

func renderComparison(w io.Writer, c *domain.AiComparisonResult) {
	fmt.Fprintf(w, "\n%s recommended: %s\n", bold("AI comparison"), magenta(c.RecommendedMethod))
	for _, r := range c.Ranking {
		score := ""
		if r.Score != nil {
			score = fmt.Sprintf(" (%.2f)", *r.Score)
		}
		fmt.Fprintf(w, "  %d. %s%s\n", r.Rank, r.Method, score)
		if notes, ok := c.PerMethodNotes[r.Method]; ok {
			if notes.Strengths != "" {
				fmt.Fprintf(w, "     %s %s\n", green("+"), notes.Strengths)
			}
			if notes.Weaknesses != "" {
				fmt.Fprintf(w, "     %s %s\n", red("-"), notes.Weaknesses)
			}
		}
	}
	if c.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", c.Summary)
	}
}

func renderSearch(w io.Writer, resp *domain.SearchResponse) {
	fmt.Fprintf(w, "%s %q\n", bold("Search"), resp.Query)
	for _, r := range resp.Results {
		fmt.Fprintf(w, "\n%s\n", bold(r.Method))
		if r.Error != "" {
			fmt.Fprintf(w, "  %s %s\n", red("error:"), r.Error)
			continue
		}
		if len(r.Passages) == 0 {
			fmt.Fprintln(w, faint("  no hits"))
			continue
		}
		for i, hit := range r.Passages {
			fmt.Fprintf(w, "  %d. [%.3f] %s\n", i+1, hit.Score, oneLine(hit.Content, 160))
		}
	}
}

func oneLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "…"
}
