package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/jonboulle/clockwork"

	"docbench/internal/domain"
	"docbench/internal/port"
)

// Store keeps the run history as one JSON array under a single key of a
// KVStore. Every mutation is a read-modify-write under the store's mutex;
// writers in other processes are not coordinated.
type Store struct {
	kv    port.KVStore
	key   string
	limit int
	clock clockwork.Clock
	mu    sync.Mutex
}

var _ port.HistoryStore = (*Store)(nil)

// NewStore creates a history store. A non-positive limit falls back to
// domain.DefaultHistoryCap.
func NewStore(kv port.KVStore, key string, limit int, clk clockwork.Clock) *Store {
	if limit <= 0 {
		limit = domain.DefaultHistoryCap
	}
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &Store{kv: kv, key: key, limit: limit, clock: clk}
}

func (s *Store) load(ctx context.Context) ([]domain.HistoryEntry, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("history.load: %w", err)
	}
	if len(raw) == 0 {
		return []domain.HistoryEntry{}, nil
	}
	var entries []domain.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("history.load: decoding %s: %w", s.key, err)
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries, nil
}

func (s *Store) save(ctx context.Context, entries []domain.HistoryEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("history.save: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("history.save: %w", err)
	}
	return nil
}

// Create puts entry at the front. An entry with the same run id is replaced
// rather than duplicated, and the oldest entries beyond the cap are dropped.
func (s *Store) Create(ctx context.Context, entry *domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return err
	}
	merged := make([]domain.HistoryEntry, 0, len(entries)+1)
	merged = append(merged, *entry)
	for i := range entries {
		if entries[i].RunID != entry.RunID {
			merged = append(merged, entries[i])
		}
	}
	return s.save(ctx, s.capped(merged))
}

func (s *Store) GetByID(ctx context.Context, runID string) (*domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(entries, runID)
	if idx < 0 {
		return nil, domain.ErrRunNotFound
	}
	return &entries[idx], nil
}

func (s *Store) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// MergeMethodUpdate applies patch to the named method of a run. A status
// never moves back to a lower rank, and a terminal status cannot be replaced
// by a different one. The run's CompletedAt is stamped the first time every
// method is terminal.
func (s *Store) MergeMethodUpdate(ctx context.Context, runID, method string, patch domain.MethodPatch) (*domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(entries, runID)
	if idx < 0 {
		return nil, domain.ErrRunNotFound
	}
	entry := &entries[idx]
	result := entry.Method(method)
	if result == nil {
		return nil, fmt.Errorf("%w: method %s in run %s", domain.ErrNotFound, method, runID)
	}

	if patch.Status != nil {
		next := *patch.Status
		current := result.Status
		switch {
		case current.IsTerminal() && next != current:
			return nil, fmt.Errorf("%w: %s is already %s", domain.ErrMethodFinalized, method, current)
		case next.Rank() >= current.Rank():
			result.Status = next
		}
	}
	if patch.FileID != nil {
		result.FileID = *patch.FileID
	}
	if patch.FailedReason != nil {
		result.FailedReason = *patch.FailedReason
	}
	if patch.StartedAt != nil {
		started := *patch.StartedAt
		result.StartedAt = &started
	}
	if patch.ProcessingTimeMs != nil {
		result.ProcessingTimeMs = *patch.ProcessingTimeMs
	}
	if patch.Usage != nil {
		result.Usage = patch.Usage
	}

	if result.Status == domain.StatusIndexingCompleted {
		if patch.Metrics != nil {
			result.ApplyMetrics(*patch.Metrics)
		}
	} else {
		result.ClearMetrics()
	}

	if entry.CompletedAt == nil && entry.AllTerminal() {
		now := s.clock.Now().UTC()
		entry.CompletedAt = &now
	}

	if err := s.save(ctx, entries); err != nil {
		return nil, err
	}
	out := *entry
	return &out, nil
}

// AttachAiComparison stores a comparison on a run. A run holds at most one.
func (s *Store) AttachAiComparison(ctx context.Context, runID string, result *domain.AiComparisonResult) (*domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(entries, runID)
	if idx < 0 {
		return nil, domain.ErrRunNotFound
	}
	if entries[idx].AiComparison != nil {
		return nil, domain.ErrComparisonExists
	}
	entries[idx].AiComparison = result
	if err := s.save(ctx, entries); err != nil {
		return nil, err
	}
	out := entries[idx]
	return &out, nil
}

func (s *Store) Summarize(ctx context.Context) ([]domain.RunSummary, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.RunSummary, 0, len(entries))
	for i := range entries {
		summaries = append(summaries, Summarize(&entries[i]))
	}
	return summaries, nil
}

// Summarize projects one entry for list rendering.
func Summarize(e *domain.HistoryEntry) domain.RunSummary {
	methods := make([]domain.MethodSummary, 0, len(e.Methods))
	for _, m := range e.Methods {
		methods = append(methods, domain.MethodSummary{Method: m.Method, Status: m.Status})
	}
	return domain.RunSummary{
		RunID:         e.RunID,
		FileName:      e.OriginalFile.Name,
		FileSize:      e.OriginalFile.Size,
		StartedAt:     e.StartedAt,
		CompletedAt:   e.CompletedAt,
		Methods:       methods,
		HasComparison: e.AiComparison != nil,
	}
}

// Export returns the whole history as indented JSON.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("history.Export: %w", err)
	}
	return out, nil
}

// Import merges an exported array into the history. Imported entries go in
// front of existing ones, duplicates by run id keep the imported copy, and
// the cap is re-applied. Any invalid entry rejects the whole payload.
func (s *Store) Import(ctx context.Context, data []byte) (int, error) {
	incoming, err := decodeImport(data)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(incoming)+len(existing))
	merged := make([]domain.HistoryEntry, 0, len(incoming)+len(existing))
	for _, group := range [][]domain.HistoryEntry{incoming, existing} {
		for i := range group {
			if seen[group[i].RunID] {
				continue
			}
			seen[group[i].RunID] = true
			merged = append(merged, group[i])
		}
	}

	if err := s.save(ctx, s.capped(merged)); err != nil {
		return 0, err
	}
	log.Printf("history.Import: imported %d entries", len(incoming))
	return len(incoming), nil
}

func decodeImport(data []byte) ([]domain.HistoryEntry, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array of runs: %v", domain.ErrInvalidImport, err)
	}
	for i, fields := range raw {
		if err := validateImportEntry(fields); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", domain.ErrInvalidImport, i, err)
		}
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}
	return entries, nil
}

func validateImportEntry(fields map[string]json.RawMessage) error {
	if fields == nil {
		return fmt.Errorf("not an object")
	}
	var runID string
	if err := json.Unmarshal(fields["runId"], &runID); err != nil || runID == "" {
		return fmt.Errorf("missing runId")
	}
	file, ok := fields["originalFile"]
	if !ok || isJSONNull(file) || file[0] != '{' {
		return fmt.Errorf("missing originalFile")
	}
	methods, ok := fields["methods"]
	if !ok || isJSONNull(methods) || methods[0] != '[' {
		return fmt.Errorf("methods must be an array")
	}
	return nil
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func (s *Store) capped(entries []domain.HistoryEntry) []domain.HistoryEntry {
	if len(entries) > s.limit {
		return entries[:s.limit]
	}
	return entries
}

func indexOf(entries []domain.HistoryEntry, runID string) int {
	for i := range entries {
		if entries[i].RunID == runID {
			return i
		}
	}
	return -1
}
