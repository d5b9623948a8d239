package harvest

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultLetters returns the full crawl set: A through Z plus the catch-all
// bucket for entries that do not start with a letter.
func DefaultLetters() []Letter {
	letters := make([]Letter, 0, 27)
	for c := 'A'; c <= 'Z'; c++ {
		letters = append(letters, Letter(c))
	}
	return append(letters, CatchAll)
}

// ParseLetter normalizes raw user input into a Letter. Lowercase input is
// upcased; anything that is not a single A-Z character or "#" is rejected.
func ParseLetter(raw string) (Letter, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == string(CatchAll) {
		return CatchAll, nil
	}
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return "", fmt.Errorf("invalid letter %q: want A-Z or %q", raw, CatchAll)
	}
	return Letter(s), nil
}

// ParseLetters normalizes a slice of raw letters, dropping duplicates while
// preserving first-seen order. Each letter is owned by exactly one crawl task
// for the run's lifetime, so duplicate input must not produce two tasks.
func ParseLetters(raw []string) ([]Letter, error) {
	seen := make(map[Letter]struct{}, len(raw))
	out := make([]Letter, 0, len(raw))
	for _, r := range raw {
		letter, err := ParseLetter(r)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[letter]; dup {
			continue
		}
		seen[letter] = struct{}{}
		out = append(out, letter)
	}
	return out, nil
}

// LoadLetterFile reads letters from a file, one per line, skipping blank
// lines. It is the fallback input when no letters are given on the command
// line.
func LoadLetterFile(path string) ([]Letter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open letter file %s: %w", path, err)
	}
	defer f.Close()

	var raw []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		raw = append(raw, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read letter file %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("letter file %s contains no letters", path)
	}
	return ParseLetters(raw)
}
