package filesapi

import (
	"context"
	"regexp"
	"strings"

	"docbench/internal/domain"
	"docbench/internal/port"
)

const tabWidth = 4

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// NormalizeContent converts CRLF and lone CR to LF, expands tabs to
// four-column stops, and collapses runs of blank lines to a single one.
func NormalizeContent(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if strings.Contains(s, "\t") {
		s = expandTabs(s)
	}
	return blankRunRe.ReplaceAllString(s, "\n\n")
}

func expandTabs(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}

// ListAllPassages follows cursors until the files API stops returning one.
func ListAllPassages(ctx context.Context, api port.FilesAPI, fileID string, pageSize int) ([]domain.Passage, error) {
	if pageSize <= 0 {
		pageSize = domain.PassagePageSize
	}
	var all []domain.Passage
	cursor := ""
	seen := map[string]bool{}
	for {
		page, err := api.ListPassages(ctx, fileID, pageSize, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Passages...)
		if page.NextCursor == "" || seen[page.NextCursor] {
			return all, nil
		}
		seen[page.NextCursor] = true
		cursor = page.NextCursor
	}
}
