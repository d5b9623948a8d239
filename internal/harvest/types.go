// Package harvest implements the crawl-and-merge engine: per-letter pagination
// traversal with bounded retries, concurrent execution across letters under a
// worker cap, and the merge policy that reconciles freshly scraped entries
// with the prior on-disk snapshot.
package harvest

import (
	"errors"
	"time"
)

// Letter identifies one crawl unit and one output file: a single uppercase
// character, or CatchAll for entries that do not start with a letter.
type Letter string

// CatchAll is the bucket for non-alphabetic entries.
const CatchAll Letter = "#"

// PageResult is the extraction output of one fetched page: the ordered entries
// found on the page plus the absolute URL of the next page, if any. An empty
// NextURL terminates pagination for the letter.
type PageResult struct {
	Entries []string
	NextURL string
}

// MergePolicy selects how freshly crawled entries reconcile with the prior
// on-disk set for a letter.
type MergePolicy int

const (
	// MergeUnion keeps prior entries that were not re-observed in this run.
	// This tolerates transient extraction misses and removed pages.
	MergeUnion MergePolicy = iota
	// MergeReplace drops prior entries not re-observed, purging stale ones.
	MergeReplace
)

func (p MergePolicy) String() string {
	switch p {
	case MergeUnion:
		return "union"
	case MergeReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Outcome is the per-letter result of a run.
type Outcome struct {
	Letter Letter
	// Fresh is the number of entries gathered by this run's crawl.
	Fresh int
	// Written is the number of entries in the output file after the merge.
	Written int
	// Duration is the wall-clock time spent on the letter's pipeline.
	Duration time.Duration
	// Partial is set when the retry budget was exhausted and only the entries
	// accumulated before the failure were merged.
	Partial bool
	// Err carries the letter's fatal error, if any. Other letters are not
	// affected by it.
	Err error
}

// RunRecord is the durable form of an Outcome, persisted by a Recorder.
type RunRecord struct {
	RunID      string
	Letter     string
	Fresh      int
	Written    int
	DurationMs int64
	Partial    bool
	ErrorText  string
	FinishedAt time.Time
}

// ErrRetryBudgetExhausted marks a letter abandoned after the per-page retry
// ceiling was hit.
var ErrRetryBudgetExhausted = errors.New("retry budget exhausted")
