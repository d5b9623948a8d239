package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lexharvest/lexharvest/internal/harvest"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data", "{0}.data"), zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestNew_RejectsTemplateWithoutSlot(t *testing.T) {
	t.Parallel()
	_, err := New("data/out.data", nil)
	require.Error(t, err)
}

func TestFileStore_Path(t *testing.T) {
	t.Parallel()
	s, err := New("data/{0}.data", nil)
	require.NoError(t, err)
	require.Equal(t, "data/A.data", s.Path("A"))
	require.Equal(t, "data/#.data", s.Path(harvest.CatchAll))
}

func TestFileStore_LoadMissingFileIsEmpty(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	entries, err := s.Load("A")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	want := []string{"Apple", "banana", "cherry"}

	require.NoError(t, s.Save("A", want))
	got, err := s.Load("A")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFileStore_SaveWritesOnePerLineWithTrailingNewline(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Save("A", []string{"a", "b"}))

	raw, err := os.ReadFile(s.Path("A"))
	require.NoError(t, err)
	require.Equal(t, "a\nb\n", string(raw))
}

func TestFileStore_SaveTruncatesPriorContent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Save("A", []string{"longer", "older", "set"}))
	require.NoError(t, s.Save("A", []string{"new"}))

	raw, err := os.ReadFile(s.Path("A"))
	require.NoError(t, err)
	require.Equal(t, "new\n", string(raw))
}

func TestFileStore_LoadSkipsBlankLinesAndCR(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	path := s.Path("A")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("a\r\n\nb\n"), 0o600))

	got, err := s.Load("A")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, got)
}
