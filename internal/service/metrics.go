package service

import (
	"strings"
	"unicode/utf8"

	"docbench/internal/domain"
)

// ComputeMetrics summarizes a completed method's passages. Lengths are
// counted in characters, not bytes. Passages without a type or subtype are
// left out of that breakdown.
func ComputeMetrics(passages []domain.Passage) domain.Metrics {
	m := domain.Metrics{
		PassageCount: len(passages),
		MetaBreakdown: domain.MetaBreakdown{
			ByType:    map[string]int{},
			BySubtype: map[string]int{},
		},
	}

	pages := map[int]struct{}{}
	for _, p := range passages {
		m.ContentCharsTotal += utf8.RuneCountInString(p.Content)
		if p.Meta.Type != "" {
			m.MetaBreakdown.ByType[p.Meta.Type]++
		}
		if p.Meta.Subtype != "" {
			m.MetaBreakdown.BySubtype[p.Meta.Subtype]++
		}
		if p.Meta.PageNumber != nil {
			pages[*p.Meta.PageNumber] = struct{}{}
		}
	}
	m.MetaBreakdown.PageCount = len(pages)
	m.SampleText = sampleText(passages)
	return m
}

func sampleText(passages []domain.Passage) string {
	n := min(len(passages), domain.SamplePassages)
	parts := make([]string, 0, n)
	for _, p := range passages[:n] {
		parts = append(parts, p.Content)
	}
	return truncateRunes(strings.Join(parts, domain.SampleSeparator), domain.SampleTextMaxChars)
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
