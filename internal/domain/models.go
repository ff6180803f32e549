package domain

import (
	"encoding/json"
	"time"
)

// MethodConfig is one parsing configuration of the hosted files API.
type MethodConfig struct {
	Name   string         `json:"name" yaml:"name"`
	Label  string         `json:"label" yaml:"label"`
	Config map[string]any `json:"config" yaml:"config"`
}

// MetaBreakdown groups passage counts by metadata.
type MetaBreakdown struct {
	ByType    map[string]int `json:"byType"`
	BySubtype map[string]int `json:"bySubtype"`
	PageCount int            `json:"pageCount"`
}

// Metrics summarizes the passage set of a completed method.
type Metrics struct {
	PassageCount      int           `json:"passageCount"`
	ContentCharsTotal int           `json:"contentCharsTotal"`
	MetaBreakdown     MetaBreakdown `json:"metaBreakdown"`
	SampleText        string        `json:"sampleText"`
}

// MethodResult is the outcome of one method within a run.
// PassageCount, ContentCharsTotal and MetaBreakdown are set only when
// Status is StatusIndexingCompleted.
type MethodResult struct {
	Method            string          `json:"method"`
	Label             string          `json:"label"`
	FileID            string          `json:"fileId,omitempty"`
	Status            Status          `json:"status"`
	FailedReason      string          `json:"failedReason,omitempty"`
	StartedAt         *time.Time      `json:"startedAt,omitempty"`
	ProcessingTimeMs  int64           `json:"processingTimeMs"`
	PassageCount      int             `json:"passageCount"`
	ContentCharsTotal int             `json:"contentCharsTotal"`
	MetaBreakdown     *MetaBreakdown  `json:"metaBreakdown,omitempty"`
	SampleText        string          `json:"sampleText,omitempty"`
	Usage             json.RawMessage `json:"usage,omitempty"`
}

// ApplyMetrics copies m into the result's metric fields.
func (r *MethodResult) ApplyMetrics(m Metrics) {
	r.PassageCount = m.PassageCount
	r.ContentCharsTotal = m.ContentCharsTotal
	breakdown := m.MetaBreakdown
	r.MetaBreakdown = &breakdown
	r.SampleText = m.SampleText
}

// ClearMetrics zeroes the metric fields.
func (r *MethodResult) ClearMetrics() {
	r.PassageCount = 0
	r.ContentCharsTotal = 0
	r.MetaBreakdown = nil
	r.SampleText = ""
}

// OriginalFile describes the uploaded document.
type OriginalFile struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// HistoryEntry is one benchmark run over one uploaded file. CompletedAt stays
// nil until every method reaches a terminal status.
type HistoryEntry struct {
	RunID        string              `json:"runId"`
	StartedAt    time.Time           `json:"startedAt"`
	CompletedAt  *time.Time          `json:"completedAt,omitempty"`
	OriginalFile OriginalFile        `json:"originalFile"`
	Methods      []MethodResult      `json:"methods"`
	AiComparison *AiComparisonResult `json:"aiComparison,omitempty"`
}

// BenchmarkRunResult is the synchronous benchmark response; it has the same
// shape as a history entry.
type BenchmarkRunResult = HistoryEntry

// Method returns the result for the named method, or nil.
func (e *HistoryEntry) Method(name string) *MethodResult {
	for i := range e.Methods {
		if e.Methods[i].Method == name {
			return &e.Methods[i]
		}
	}
	return nil
}

// AllTerminal reports whether every method reached a terminal status.
func (e *HistoryEntry) AllTerminal() bool {
	if len(e.Methods) == 0 {
		return false
	}
	for i := range e.Methods {
		if !e.Methods[i].Status.IsTerminal() {
			return false
		}
	}
	return true
}

// AllCompleted reports whether every method finished indexing successfully.
func (e *HistoryEntry) AllCompleted() bool {
	if len(e.Methods) == 0 {
		return false
	}
	for i := range e.Methods {
		if e.Methods[i].Status != StatusIndexingCompleted || e.Methods[i].FileID == "" {
			return false
		}
	}
	return true
}

// FileIDs maps method name to file id for every method that has one.
func (e *HistoryEntry) FileIDs() map[string]string {
	ids := make(map[string]string, len(e.Methods))
	for i := range e.Methods {
		if e.Methods[i].FileID != "" {
			ids[e.Methods[i].Method] = e.Methods[i].FileID
		}
	}
	return ids
}

// PassageMeta carries the indexing pipeline's metadata for a passage.
type PassageMeta struct {
	Type       string `json:"type,omitempty"`
	Subtype    string `json:"subtype,omitempty"`
	PageNumber *int   `json:"pageNumber,omitempty"`
	Position   *int   `json:"position,omitempty"`
	SourceURL  string `json:"sourceUrl,omitempty"`
}

// Passage is one chunk of extracted content.
type Passage struct {
	ID      string      `json:"id"`
	Content string      `json:"content"`
	Meta    PassageMeta `json:"meta"`
}

// SearchHit is one ranked passage returned by the remote search.
type SearchHit struct {
	Content string      `json:"content"`
	Score   float64     `json:"score"`
	Meta    PassageMeta `json:"meta"`
}

// MethodSearchResult holds one method's share of a fanned-out search.
type MethodSearchResult struct {
	Method   string      `json:"method"`
	Passages []SearchHit `json:"passages"`
	Error    string      `json:"error,omitempty"`
}

// SearchResponse is the aggregate of a parallel search.
type SearchResponse struct {
	Query   string               `json:"query"`
	Results []MethodSearchResult `json:"results"`
}

// RankingEntry places one method in an AI comparison.
type RankingEntry struct {
	Method string   `json:"method"`
	Rank   int      `json:"rank"`
	Score  *float64 `json:"score,omitempty"`
}

// MethodNotes are the comparison's remarks about a single method.
type MethodNotes struct {
	Strengths  string `json:"strengths"`
	Weaknesses string `json:"weaknesses"`
}

// AiComparisonResult is the LLM-generated ranking of a run's methods.
type AiComparisonResult struct {
	RunID             string                 `json:"runId"`
	GeneratedAt       time.Time              `json:"generatedAt"`
	Ranking           []RankingEntry         `json:"ranking"`
	Summary           string                 `json:"summary"`
	PerMethodNotes    map[string]MethodNotes `json:"perMethodNotes"`
	RecommendedMethod string                 `json:"recommendedMethod"`
}

// StartHandle is returned when a method is started without waiting for it.
type StartHandle struct {
	FileID    string    `json:"fileId"`
	Method    string    `json:"method"`
	Label     string    `json:"label"`
	StartedAt time.Time `json:"startedAt"`
}

// FileStatusReport is the status of one remote file, with metrics once
// indexing completed.
type FileStatusReport struct {
	FileID            string         `json:"fileId"`
	Status            Status         `json:"status"`
	FailedReason      string         `json:"failedReason,omitempty"`
	ProcessingTimeMs  *int64         `json:"processingTimeMs,omitempty"`
	PassageCount      int            `json:"passageCount,omitempty"`
	ContentCharsTotal int            `json:"contentCharsTotal,omitempty"`
	MetaBreakdown     *MetaBreakdown `json:"metaBreakdown,omitempty"`
	SampleText        string         `json:"sampleText,omitempty"`
	// Passages holds the listing the metrics were computed from.
	Passages []Passage `json:"-"`
}

// RunSummary is the list projection of a history entry.
type RunSummary struct {
	RunID         string          `json:"runId"`
	FileName      string          `json:"fileName"`
	FileSize      int64           `json:"fileSize"`
	StartedAt     time.Time       `json:"startedAt"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
	Methods       []MethodSummary `json:"methods"`
	HasComparison bool            `json:"hasComparison"`
}

// MethodSummary is the per-method part of a RunSummary.
type MethodSummary struct {
	Method string `json:"method"`
	Status Status `json:"status"`
}

// MethodPatch is a partial update to one method's record. Nil fields are
// left untouched. Metrics are kept only when the resulting status is
// StatusIndexingCompleted.
type MethodPatch struct {
	FileID           *string
	Status           *Status
	FailedReason     *string
	StartedAt        *time.Time
	ProcessingTimeMs *int64
	Metrics          *Metrics
	Usage            json.RawMessage
}
