package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lexharvest/lexharvest/internal/harvest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestStore_RecordAndListRun(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	finished := time.Now().UTC().Truncate(time.Second)

	recs := []harvest.RunRecord{
		{RunID: "run-1", Letter: "B", Fresh: 5, Written: 7, DurationMs: 1200, FinishedAt: finished},
		{RunID: "run-1", Letter: "A", Fresh: 3, Written: 3, DurationMs: 800, Partial: true, ErrorText: "retry budget exhausted", FinishedAt: finished},
		{RunID: "run-2", Letter: "A", Fresh: 1, Written: 1, DurationMs: 100, FinishedAt: finished},
	}
	for _, rec := range recs {
		require.NoError(t, s.Record(ctx, rec))
	}

	got, err := s.ListRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Sorted by letter.
	require.Equal(t, "A", got[0].Letter)
	require.True(t, got[0].Partial)
	require.Equal(t, "retry budget exhausted", got[0].ErrorText)
	require.Equal(t, "B", got[1].Letter)
	require.Equal(t, 7, got[1].Written)
}

func TestStore_ListRunEmpty(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	got, err := s.ListRun(context.Background(), "missing")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestStore_ConcurrentRecords(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	done := make(chan error, 8)
	for i := range 8 {
		go func(n int) {
			done <- s.Record(ctx, harvest.RunRecord{
				RunID:      "run-c",
				Letter:     string(rune('A' + n)),
				FinishedAt: time.Now().UTC(),
			})
		}(i)
	}
	for range 8 {
		require.NoError(t, <-done)
	}

	got, err := s.ListRun(ctx, "run-c")
	require.NoError(t, err)
	require.Len(t, got, 8)
}
