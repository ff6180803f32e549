package service_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"docbench/internal/domain"
	"docbench/internal/service"
)

func TestComputeMetrics(t *testing.T) {
	passages := []domain.Passage{
		{Content: "héllo", Meta: domain.PassageMeta{Type: "text", Subtype: "heading", PageNumber: intPtr(1)}},
		{Content: "world", Meta: domain.PassageMeta{Type: "text", PageNumber: intPtr(1)}},
		{Content: "a|b", Meta: domain.PassageMeta{Type: "table", Subtype: "grid", PageNumber: intPtr(3)}},
		{Content: "tail"},
	}

	m := service.ComputeMetrics(passages)

	assert.Equal(t, 4, m.PassageCount)
	assert.Equal(t, 17, m.ContentCharsTotal)
	assert.Equal(t, map[string]int{"text": 2, "table": 1}, m.MetaBreakdown.ByType)
	assert.Equal(t, map[string]int{"heading": 1, "grid": 1}, m.MetaBreakdown.BySubtype)
	assert.Equal(t, 2, m.MetaBreakdown.PageCount)
	assert.Equal(t, "héllo\n\n---\n\nworld\n\n---\n\na|b", m.SampleText)
}

func TestComputeMetrics_Empty(t *testing.T) {
	m := service.ComputeMetrics(nil)
	assert.Zero(t, m.PassageCount)
	assert.Empty(t, m.SampleText)
	assert.NotNil(t, m.MetaBreakdown.ByType)
}

func TestComputeMetrics_SampleTruncated(t *testing.T) {
	long := strings.Repeat("é", 1500)
	m := service.ComputeMetrics([]domain.Passage{{Content: long}, {Content: long}})

	assert.Equal(t, domain.SampleTextMaxChars, utf8.RuneCountInString(m.SampleText))
	assert.Equal(t, 3000, m.ContentCharsTotal)
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "image/png", service.DetectContentType("image/png", "scan.pdf", nil))
	assert.Equal(t, "application/pdf", service.DetectContentType("application/octet-stream", "report.pdf", nil))
	assert.Equal(t, "application/pdf", service.DetectContentType("", "noext", []byte("%PDF-1.4\n")))
}
