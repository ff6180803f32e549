package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"

	"docbench/internal/domain"
	"docbench/internal/port"
)

const comparisonSchemaName = "record_comparison"

// comparisonSchema is the fixed output shape requested from the model.
// Per-method notes are a list rather than a map so every provider's schema
// dialect can express it.
var comparisonSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "ranking": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "method": {"type": "string"},
          "rank": {"type": "integer", "minimum": 1, "maximum": 3},
          "score": {"type": "number", "minimum": 1, "maximum": 10}
        },
        "required": ["method", "rank"]
      }
    },
    "summary": {"type": "string"},
    "perMethodNotes": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "method": {"type": "string"},
          "strengths": {"type": "string"},
          "weaknesses": {"type": "string"}
        },
        "required": ["method", "strengths", "weaknesses"]
      }
    },
    "recommendedMethod": {"type": "string"}
  },
  "required": ["ranking", "summary", "perMethodNotes", "recommendedMethod"]
}`)

// CompareInput identifies the files to compare, keyed by method name.
type CompareInput struct {
	RunID        string            `json:"runId"`
	FileIDs      map[string]string `json:"fileIds"`
	Instructions string            `json:"instructions,omitempty"`
}

// ComparisonService defines the AI comparison contract.
type ComparisonService interface {
	// Compare ranks the methods' outputs. When input.RunID is recorded in
	// history, its stored comparison is returned as is, and a run whose
	// methods did not all complete fails with ErrComparisonNotEligible.
	Compare(ctx context.Context, input CompareInput) (*domain.AiComparisonResult, error)
	// CompareRun compares a recorded run, returning the stored comparison
	// if the run already has one.
	CompareRun(ctx context.Context, runID, instructions string) (*domain.AiComparisonResult, error)
	GetExcerpt(ctx context.Context, fileID string) string
}

type comparisonService struct {
	api       port.FilesAPI
	extractor port.StructuredExtractor
	history   port.HistoryStore
	methods   []domain.MethodConfig
	clock     clockwork.Clock
}

// NewComparisonService creates a new ComparisonService. extractor may be nil,
// in which case every comparison fails with ErrExtraction; history may be nil.
func NewComparisonService(api port.FilesAPI, extractor port.StructuredExtractor, history port.HistoryStore, methods []domain.MethodConfig, clk clockwork.Clock) ComparisonService {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &comparisonService{
		api:       api,
		extractor: extractor,
		history:   history,
		methods:   methods,
		clock:     clk,
	}
}

// GetExcerpt returns up to ExcerptPassages whole passages joined by blank
// lines, stopping before the passage that would exceed ExcerptMaxChars.
// Fetch failures become placeholder text instead of errors.
func (s *comparisonService) GetExcerpt(ctx context.Context, fileID string) string {
	page, err := s.api.ListPassages(ctx, fileID, domain.ExcerptPassages, "")
	if err != nil {
		log.Printf("comparisonService.GetExcerpt: %s: %v", fileID, err)
		return fmt.Sprintf("[Failed to load passages: %v]", err)
	}
	if len(page.Passages) == 0 {
		return "[No passages found]"
	}

	var parts []string
	used := 0
	for i, p := range page.Passages {
		if i >= domain.ExcerptPassages {
			break
		}
		cost := utf8.RuneCountInString(p.Content)
		if len(parts) > 0 {
			cost += 2
		}
		if used+cost > domain.ExcerptMaxChars {
			break
		}
		parts = append(parts, p.Content)
		used += cost
	}
	return strings.Join(parts, "\n\n")
}

func (s *comparisonService) Compare(ctx context.Context, input CompareInput) (*domain.AiComparisonResult, error) {
	existing, err := s.recorded(ctx, input.RunID)
	if err != nil || existing != nil {
		return existing, err
	}

	var missing []string
	for _, m := range s.methods {
		if input.FileIDs[m.Name] == "" {
			missing = append(missing, m.Name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingFileIDs, strings.Join(missing, ", "))
	}
	if s.extractor == nil {
		return nil, fmt.Errorf("%w: no extraction provider configured", domain.ErrExtraction)
	}

	excerpts := make([]string, len(s.methods))
	for i, m := range s.methods {
		excerpts[i] = s.GetExcerpt(ctx, input.FileIDs[m.Name])
	}

	out, err := s.extractor.Extract(ctx, port.ExtractInput{
		Prompt:     s.buildPrompt(excerpts, input.Instructions),
		SchemaName: comparisonSchemaName,
		Schema:     comparisonSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}

	result, err := decodeComparison(out.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}
	result.RunID = input.RunID
	result.GeneratedAt = s.clock.Now().UTC()
	log.Printf("comparisonService.Compare: run %s ranked by %s, recommended %s", input.RunID, out.ModelUsed, result.RecommendedMethod)

	s.attach(ctx, result)
	return result, nil
}

func (s *comparisonService) CompareRun(ctx context.Context, runID, instructions string) (*domain.AiComparisonResult, error) {
	if s.history == nil {
		return nil, domain.ErrRunNotFound
	}
	entry, err := s.history.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	return s.Compare(ctx, CompareInput{RunID: runID, FileIDs: entry.FileIDs(), Instructions: instructions})
}

// recorded gates comparisons of runs kept in history: a run that already has
// a comparison yields it unchanged, and a run whose methods did not all
// complete is rejected. Unknown or empty run IDs pass through.
func (s *comparisonService) recorded(ctx context.Context, runID string) (*domain.AiComparisonResult, error) {
	if s.history == nil || runID == "" {
		return nil, nil
	}
	entry, err := s.history.GetByID(ctx, runID)
	switch {
	case errors.Is(err, domain.ErrRunNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	case entry.AiComparison != nil:
		return entry.AiComparison, nil
	case !entry.AllCompleted():
		return nil, domain.ErrComparisonNotEligible
	}
	return nil, nil
}

func (s *comparisonService) attach(ctx context.Context, result *domain.AiComparisonResult) {
	if s.history == nil || result.RunID == "" {
		return
	}
	_, err := s.history.AttachAiComparison(ctx, result.RunID, result)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrRunNotFound), errors.Is(err, domain.ErrComparisonExists):
	default:
		log.Printf("comparisonService: failed to attach comparison to %s: %v", result.RunID, err)
	}
}

func (s *comparisonService) buildPrompt(excerpts []string, instructions string) string {
	var b strings.Builder
	b.WriteString("You are evaluating document parsing methods. The same document was parsed by each method below, ")
	b.WriteString("and you are given an excerpt of the passages each one produced.\n\n")

	for i, m := range s.methods {
		fmt.Fprintf(&b, "=== Method %q (%s) ===\n%s\n\n", m.Name, m.Label, excerpts[i])
	}

	b.WriteString("Rank the methods from 1 (best) to 3 (worst) on these criteria:\n")
	b.WriteString("- Completeness: is all of the document's content present?\n")
	b.WriteString("- Structure preservation: are headings, lists and tables kept intact?\n")
	b.WriteString("- Readability: is the text clean, without artifacts or broken words?\n")
	b.WriteString("- Accuracy: is the text faithful to the source, without hallucinated content?\n\n")
	b.WriteString("You may give each method an overall score from 1 to 10. Use the method names exactly as quoted above. ")
	b.WriteString("Write a short summary, strengths and weaknesses for each method, and name the single method you recommend.\n")

	if strings.TrimSpace(instructions) != "" {
		b.WriteString("\nAdditional instructions from the user:\n")
		b.WriteString(strings.TrimSpace(instructions))
		b.WriteString("\n")
	}
	return b.String()
}

type comparisonPayload struct {
	Ranking        []domain.RankingEntry `json:"ranking"`
	Summary        string                `json:"summary"`
	PerMethodNotes []struct {
		Method     string `json:"method"`
		Strengths  string `json:"strengths"`
		Weaknesses string `json:"weaknesses"`
	} `json:"perMethodNotes"`
	RecommendedMethod string `json:"recommendedMethod"`
}

func decodeComparison(data json.RawMessage) (*domain.AiComparisonResult, error) {
	var payload comparisonPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding comparison: %w", err)
	}

	sort.SliceStable(payload.Ranking, func(i, j int) bool {
		return payload.Ranking[i].Rank < payload.Ranking[j].Rank
	})
	notes := make(map[string]domain.MethodNotes, len(payload.PerMethodNotes))
	for _, n := range payload.PerMethodNotes {
		notes[n.Method] = domain.MethodNotes{Strengths: n.Strengths, Weaknesses: n.Weaknesses}
	}

	return &domain.AiComparisonResult{
		Ranking:           payload.Ranking,
		Summary:           payload.Summary,
		PerMethodNotes:    notes,
		RecommendedMethod: payload.RecommendedMethod,
	}, nil
}
