package xlsxexport

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"docbench/internal/domain"
)

const (
	RunsSheet        = "Runs"
	ComparisonsSheet = "Comparisons"
)

// runColumns is the header of the Runs sheet. One row per run and method.
var runColumns = []any{
	"Run ID",
	"File Name",
	"File Size",
	"Content Type",
	"Started At",
	"Completed At",
	"Method",
	"Label",
	"File ID",
	"Status",
	"Failed Reason",
	"Processing Time (ms)",
	"Passages",
	"Content Chars",
	"Pages",
}

var comparisonColumns = []any{
	"Run ID",
	"Generated At",
	"Recommended Method",
	"Rank",
	"Method",
	"Score",
	"Strengths",
	"Weaknesses",
	"Summary",
}

// Write renders the history entries as an xlsx workbook with a Runs sheet
// and a Comparisons sheet.
func Write(w io.Writer, entries []domain.HistoryEntry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), RunsSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(ComparisonsSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	if err := writeRow(f, RunsSheet, 1, runColumns); err != nil {
		return err
	}
	if err := writeRow(f, ComparisonsSheet, 1, comparisonColumns); err != nil {
		return err
	}

	runRow, cmpRow := 2, 2
	for i := range entries {
		e := &entries[i]
		for j := range e.Methods {
			if err := writeRow(f, RunsSheet, runRow, methodRow(e, &e.Methods[j])); err != nil {
				return err
			}
			runRow++
		}
		if e.AiComparison == nil {
			continue
		}
		for _, row := range comparisonRows(e.AiComparison) {
			if err := writeRow(f, ComparisonsSheet, cmpRow, row); err != nil {
				return err
			}
			cmpRow++
		}
	}

	if err := f.SetPanes(RunsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

func methodRow(e *domain.HistoryEntry, m *domain.MethodResult) []any {
	row := []any{
		e.RunID,
		e.OriginalFile.Name,
		e.OriginalFile.Size,
		e.OriginalFile.ContentType,
		e.StartedAt.UTC().Format(time.RFC3339),
		formatTime(e.CompletedAt),
		m.Method,
		m.Label,
		m.FileID,
		string(m.Status),
		m.FailedReason,
		m.ProcessingTimeMs,
		"",
		"",
		"",
	}
	// Metric cells stay blank unless the method completed.
	if m.Status == domain.StatusIndexingCompleted {
		row[12] = m.PassageCount
		row[13] = m.ContentCharsTotal
		if m.MetaBreakdown != nil {
			row[14] = m.MetaBreakdown.PageCount
		}
	}
	return row
}

func comparisonRows(c *domain.AiComparisonResult) [][]any {
	rows := make([][]any, 0, len(c.Ranking))
	for _, r := range c.Ranking {
		var score any = ""
		if r.Score != nil {
			score = *r.Score
		}
		notes := c.PerMethodNotes[r.Method]
		rows = append(rows, []any{
			c.RunID,
			c.GeneratedAt.UTC().Format(time.RFC3339),
			c.RecommendedMethod,
			r.Rank,
			r.Method,
			score,
			notes.Strengths,
			notes.Weaknesses,
			c.Summary,
		})
	}
	return rows
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces characters other than letters, digits, hyphen
// and underscore with _, collapses repeats, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns the Content-Disposition filename for an export taken
// at now: {name}_{YYYY-MM-DD}.xlsx
func BuildFilename(name string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", SanitizeFilename(name), now.Format("2006-01-02"))
}
