package history_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docbench/internal/domain"
	"docbench/internal/history"
	"docbench/internal/storage/local"
	"docbench/mocks"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newStore(limit int) (*history.Store, *clockwork.FakeClock) {
	clk := clockwork.NewFakeClockAt(t0)
	return history.NewStore(local.NewMemoryStore(), "docbench.history", limit, clk), clk
}

func pendingEntry(runID string) *domain.HistoryEntry {
	started := t0
	return &domain.HistoryEntry{
		RunID:        runID,
		StartedAt:    t0,
		OriginalFile: domain.OriginalFile{Name: "report.pdf", Size: 1024, ContentType: "application/pdf"},
		Methods: []domain.MethodResult{
			{Method: domain.MethodBasic, Label: "Basic", FileID: "f-basic", Status: domain.StatusUploadPending, StartedAt: &started},
			{Method: domain.MethodVision, Label: "Vision", FileID: "f-vision", Status: domain.StatusUploadPending, StartedAt: &started},
			{Method: domain.MethodAgentic, Label: "Agentic", FileID: "f-agentic", Status: domain.StatusUploadPending, StartedAt: &started},
		},
	}
}

func statusPtr(s domain.Status) *domain.Status { return &s }

func runIDs(entries []domain.HistoryEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.RunID)
	}
	return ids
}

func TestStore_EmptyHistory(t *testing.T) {
	store, _ := newStore(0)
	entries, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = store.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestStore_Create_EvictsOldestBeyondCap(t *testing.T) {
	store, _ := newStore(25)
	ctx := context.Background()
	for i := 1; i <= 26; i++ {
		require.NoError(t, store.Create(ctx, pendingEntry(fmt.Sprintf("run_%02d", i))))
	}

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 25)
	assert.Equal(t, "run_26", entries[0].RunID)
	assert.Equal(t, "run_02", entries[24].RunID)
	assert.NotContains(t, runIDs(entries), "run_01")
}

func TestStore_Create_ReplacesExistingAtFront(t *testing.T) {
	store, _ := newStore(25)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, pendingEntry("a")))
	require.NoError(t, store.Create(ctx, pendingEntry("b")))

	updated := pendingEntry("a")
	updated.OriginalFile.Name = "renamed.pdf"
	require.NoError(t, store.Create(ctx, updated))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, runIDs(entries))
	assert.Equal(t, "renamed.pdf", entries[0].OriginalFile.Name)
}

func TestStore_MergeMethodUpdate_CompletedSetsMetrics(t *testing.T) {
	store, _ := newStore(0)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, pendingEntry("run")))

	elapsed := int64(3000)
	entry, err := store.MergeMethodUpdate(ctx, "run", domain.MethodBasic, domain.MethodPatch{
		Status:           statusPtr(domain.StatusIndexingCompleted),
		ProcessingTimeMs: &elapsed,
		Metrics: &domain.Metrics{
			PassageCount:      10,
			ContentCharsTotal: 900,
			MetaBreakdown:     domain.MetaBreakdown{ByType: map[string]int{"text": 10}, PageCount: 2},
			SampleText:        "hello",
		},
	})
	require.NoError(t, err)

	basic := entry.Method(domain.MethodBasic)
	assert.Equal(t, domain.StatusIndexingCompleted, basic.Status)
	assert.Equal(t, 10, basic.PassageCount)
	assert.Equal(t, 900, basic.ContentCharsTotal)
	require.NotNil(t, basic.MetaBreakdown)
	assert.Equal(t, 2, basic.MetaBreakdown.PageCount)
	assert.Equal(t, int64(3000), basic.ProcessingTimeMs)
	assert.Nil(t, entry.CompletedAt)
}

func TestStore_MergeMethodUpdate_NeverRegresses(t *testing.T) {
	store, _ := newStore(0)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, pendingEntry("run")))

	_, err := store.MergeMethodUpdate(ctx, "run", domain.MethodBasic, domain.MethodPatch{Status: statusPtr(domain.StatusIndexingPending)})
	require.NoError(t, err)

	entry, err := store.MergeMethodUpdate(ctx, "run", domain.MethodBasic, domain.MethodPatch{Status: statusPtr(domain.StatusUploadPending)})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusIndexingPending, entry.Method(domain.MethodBasic).Status)
}

func TestStore_MergeMethodUpdate_TerminalIsFinal(t *testing.T) {
	store, _ := newStore(0)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, pendingEntry("run")))

	reason := "exceeded 5m"
	_, err := store.MergeMethodUpdate(ctx, "run", domain.MethodAgentic, domain.MethodPatch{
		Status:       statusPtr(domain.StatusTimeout),
		FailedReason: &reason,
	})
	require.NoError(t, err)

	_, err = store.MergeMethodUpdate(ctx, "run", domain.MethodAgentic, domain.MethodPatch{
		Status:  statusPtr(domain.StatusIndexingCompleted),
		Metrics: &domain.Metrics{PassageCount: 5},
	})
	assert.ErrorIs(t, err, domain.ErrMethodFinalized)

	entry, err := store.GetByID(ctx, "run")
	require.NoError(t, err)
	agentic := entry.Method(domain.MethodAgentic)
	assert.Equal(t, domain.StatusTimeout, agentic.Status)
	assert.Zero(t, agentic.PassageCount)
	assert.Nil(t, agentic.MetaBreakdown)
}

func TestStore_MergeMethodUpdate_MetricsClearedWhenNotCompleted(t *testing.T) {
	store, _ := newStore(0)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, pendingEntry("run")))

	entry, err := store.MergeMethodUpdate(ctx, "run", domain.MethodVision, domain.MethodPatch{
		Status:  statusPtr(domain.StatusIndexingFailed),
		Metrics: &domain.Metrics{PassageCount: 4, ContentCharsTotal: 10},
	})
	require.NoError(t, err)
	vision := entry.Method(domain.MethodVision)
	assert.Zero(t, vision.PassageCount)
	assert.Zero(t, vision.ContentCharsTotal)
	assert.Nil(t, vision.MetaBreakdown)
}

func TestStore_MergeMethodUpdate_CompletedAtSetOnce(t *testing.T) {
	store, clk := newStore(0)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, pendingEntry("run")))

	for _, m := range []string{domain.MethodBasic, domain.MethodVision} {
		clk.Advance(time.Second)
		entry, err := store.MergeMethodUpdate(ctx, "run", m, domain.MethodPatch{Status: statusPtr(domain.StatusIndexingCompleted)})
		require.NoError(t, err)
		assert.Nil(t, entry.CompletedAt)
	}

	clk.Advance(5 * time.Minute)
	entry, err := store.MergeMethodUpdate(ctx, "run", domain.MethodAgentic, domain.MethodPatch{Status: statusPtr(domain.StatusTimeout)})
	require.NoError(t, err)
	require.NotNil(t, entry.CompletedAt)
	first := *entry.CompletedAt
	assert.Equal(t, t0.Add(5*time.Minute+2*time.Second), first)

	clk.Advance(time.Minute)
	elapsed := int64(1)
	entry, err = store.MergeMethodUpdate(ctx, "run", domain.MethodBasic, domain.MethodPatch{ProcessingTimeMs: &elapsed})
	require.NoError(t, err)
	assert.Equal(t, first, *entry.CompletedAt)
}

func TestStore_MergeMethodUpdate_UnknownRunOrMethod(t *testing.T) {
	store, _ := newStore(0)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, pendingEntry("run")))

	_, err := store.MergeMethodUpdate(ctx, "other", domain.MethodBasic, domain.MethodPatch{})
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	_, err = store.MergeMethodUpdate(ctx, "run", "ocr", domain.MethodPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_AttachAiComparison(t *testing.T) {
	store, _ := newStore(0)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, pendingEntry("run")))

	cmp := &domain.AiComparisonResult{RunID: "run", Summary: "vision wins", RecommendedMethod: domain.MethodVision}
	entry, err := store.AttachAiComparison(ctx, "run", cmp)
	require.NoError(t, err)
	require.NotNil(t, entry.AiComparison)
	assert.Equal(t, "vision wins", entry.AiComparison.Summary)

	_, err = store.AttachAiComparison(ctx, "run", cmp)
	assert.ErrorIs(t, err, domain.ErrComparisonExists)

	_, err = store.AttachAiComparison(ctx, "missing", cmp)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestStore_Summarize(t *testing.T) {
	store, _ := newStore(0)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, pendingEntry("run")))
	_, err := store.AttachAiComparison(ctx, "run", &domain.AiComparisonResult{RunID: "run"})
	require.NoError(t, err)

	summaries, err := store.Summarize(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	s := summaries[0]
	assert.Equal(t, "run", s.RunID)
	assert.Equal(t, "report.pdf", s.FileName)
	assert.Equal(t, int64(1024), s.FileSize)
	assert.True(t, s.HasComparison)
	require.Len(t, s.Methods, 3)
	assert.Equal(t, domain.MethodSummary{Method: domain.MethodBasic, Status: domain.StatusUploadPending}, s.Methods[0])
}

func TestStore_ExportImport_RoundTripIsSuperset(t *testing.T) {
	ctx := context.Background()
	source, _ := newStore(0)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, source.Create(ctx, pendingEntry(id)))
	}
	exported, err := source.Export(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(exported), "\n  {")

	target, _ := newStore(0)
	require.NoError(t, target.Create(ctx, pendingEntry("z")))
	require.NoError(t, target.Create(ctx, pendingEntry("b")))

	n, err := target.Import(ctx, exported)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := target.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a", "z"}, runIDs(entries))
}

func TestStore_Import_ReappliesCap(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(3)
	require.NoError(t, store.Create(ctx, pendingEntry("old")))

	var payload []*domain.HistoryEntry
	for _, id := range []string{"n1", "n2", "n3"} {
		payload = append(payload, pendingEntry(id))
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	_, err = store.Import(ctx, raw)
	require.NoError(t, err)

	entries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"n1", "n2", "n3"}, runIDs(entries))
}

func TestStore_Import_RejectsInvalidPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{{`},
		{"object instead of array", `{"runId":"a"}`},
		{"missing runId", `[{"originalFile":{"name":"x"},"methods":[]}]`},
		{"missing originalFile", `[{"runId":"a","methods":[]}]`},
		{"methods not array", `[{"runId":"a","originalFile":{"name":"x"},"methods":{}}]`},
		{"one bad among good", `[{"runId":"a","originalFile":{"name":"x"},"methods":[]},{"runId":"b"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store, _ := newStore(0)
			require.NoError(t, store.Create(ctx, pendingEntry("keep")))

			_, err := store.Import(ctx, []byte(tt.payload))
			assert.ErrorIs(t, err, domain.ErrInvalidImport)

			entries, err := store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"keep"}, runIDs(entries))
		})
	}
}

func TestStore_KVFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("get error propagates", func(t *testing.T) {
		kv := new(mocks.MockKVStore)
		kv.On("Get", mock.Anything, "docbench.history").Return(nil, errors.New("connection refused"))
		store := history.NewStore(kv, "docbench.history", 25, clockwork.NewFakeClockAt(t0))

		_, err := store.List(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		kv.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("set error propagates from create", func(t *testing.T) {
		kv := new(mocks.MockKVStore)
		kv.On("Get", mock.Anything, "docbench.history").Return(nil, nil)
		kv.On("Set", mock.Anything, "docbench.history", mock.AnythingOfType("[]uint8")).Return(errors.New("disk full"))
		store := history.NewStore(kv, "docbench.history", 25, clockwork.NewFakeClockAt(t0))

		err := store.Create(ctx, pendingEntry("run_1"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		kv.AssertExpectations(t)
	})

	t.Run("corrupt payload is reported", func(t *testing.T) {
		kv := new(mocks.MockKVStore)
		kv.On("Get", mock.Anything, "docbench.history").Return([]byte("{not json"), nil)
		store := history.NewStore(kv, "docbench.history", 25, clockwork.NewFakeClockAt(t0))

		_, err := store.GetByID(ctx, "run_1")
		require.Error(t, err)
	})
}
