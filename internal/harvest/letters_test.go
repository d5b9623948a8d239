package harvest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultLetters(t *testing.T) {
	t.Parallel()
	letters := DefaultLetters()
	require.Len(t, letters, 27)
	require.Equal(t, Letter("A"), letters[0])
	require.Equal(t, Letter("Z"), letters[25])
	require.Equal(t, CatchAll, letters[26])
}

func TestParseLetter(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in      string
		want    Letter
		wantErr bool
	}{
		{in: "a", want: "A"},
		{in: " Q ", want: "Q"},
		{in: "#", want: CatchAll},
		{in: "", wantErr: true},
		{in: "AB", wantErr: true},
		{in: "1", wantErr: true},
		{in: "ä", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseLetter(tc.in)
		if tc.wantErr {
			require.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		require.Equal(t, tc.want, got)
	}
}

func TestParseLetters_DropsDuplicates(t *testing.T) {
	t.Parallel()
	letters, err := ParseLetters([]string{"a", "B", "A", "b", "#"})
	require.NoError(t, err)
	require.Equal(t, []Letter{"A", "B", CatchAll}, letters)
}

func TestLoadLetterFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "input.list")
	require.NoError(t, os.WriteFile(path, []byte("a\n\nB\n#\n"), 0o600))

	letters, err := LoadLetterFile(path)
	require.NoError(t, err)
	require.Equal(t, []Letter{"A", "B", CatchAll}, letters)
}

func TestLoadLetterFile_Missing(t *testing.T) {
	t.Parallel()
	_, err := LoadLetterFile(filepath.Join(t.TempDir(), "absent.list"))
	require.Error(t, err)
}

func TestLoadLetterFile_Empty(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "input.list")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0o600))

	_, err := LoadLetterFile(path)
	require.Error(t, err)
}
