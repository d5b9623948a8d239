// Package store persists per-letter corpora as line-oriented text files.
package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/lexharvest/lexharvest/internal/harvest"
)

// letterSlot is the substitution slot in the output filename template.
const letterSlot = "{0}"

// FileStore maps each letter to one file via a filename template such as
// "data/{0}.data". It implements harvest.EntryStore.
type FileStore struct {
	template string
	logger   *zap.Logger
}

// New validates the template and returns a FileStore. Directories are created
// lazily on first save.
func New(template string, logger *zap.Logger) (*FileStore, error) {
	if !strings.Contains(template, letterSlot) {
		return nil, fmt.Errorf("output template %q must contain %s", template, letterSlot)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{template: template, logger: logger}, nil
}

// Path returns the output file path for a letter.
func (s *FileStore) Path(letter harvest.Letter) string {
	return strings.ReplaceAll(s.template, letterSlot, string(letter))
}

// Load reads the letter's prior entries, one per line. A missing file is not
// an error; it yields an empty set.
func (s *FileStore) Load(letter harvest.Letter) ([]string, error) {
	path := s.Path(letter)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return entries, nil
}

// Save replaces the letter's file with the given entries, one per line with a
// trailing newline. The write is truncate+write, not append; a crash mid-write
// can leave a truncated file, which is an accepted limitation of the baseline
// policy.
func (s *FileStore) Save(letter harvest.Letter, entries []string) error {
	path := s.Path(letter)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.logger.Debug("wrote corpus file",
		zap.String("path", path), zap.Int("entries", len(entries)))
	return nil
}
