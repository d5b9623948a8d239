package harvest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lexharvest/lexharvest/internal/progress"
)

// Coordinator runs the crawl-then-merge pipeline for a batch of letters under
// a bounded-concurrency policy. Each letter owns its output file exclusively
// for the run's duration, and one letter's fatal failure never cancels the
// others.
type Coordinator struct {
	crawler    *LetterCrawler
	store      EntryStore
	recorder   Recorder
	policy     MergePolicy
	maxWorkers int
	emitter    progress.Emitter
	runID      uuid.UUID
	logger     *zap.Logger
}

// NewCoordinator constructs a Coordinator. recorder may be nil when no run
// history is kept.
func NewCoordinator(
	crawler *LetterCrawler,
	store EntryStore,
	recorder Recorder,
	policy MergePolicy,
	maxWorkers int,
	emitter progress.Emitter,
	runID uuid.UUID,
	logger *zap.Logger,
) *Coordinator {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		crawler:    crawler,
		store:      store,
		recorder:   recorder,
		policy:     policy,
		maxWorkers: maxWorkers,
		emitter:    emitter,
		runID:      runID,
		logger:     logger,
	}
}

// Run processes every letter and returns the per-letter outcomes once all
// tasks have finished. At most maxWorkers letters are in flight at any
// instant; the rest queue in submission order. The returned error reflects
// run-level problems (context cancellation), never a single letter's failure.
//
// errgroup.SetLimit is used instead of a hand-rolled worker pool; letter
// tasks always return nil so a failed letter cannot cancel its siblings.
func (co *Coordinator) Run(ctx context.Context, letters []Letter) (map[Letter]Outcome, error) {
	outcomes := make(map[Letter]Outcome, len(letters))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(co.maxWorkers)

	for _, letter := range letters {
		g.Go(func() error {
			out := co.processLetter(ctx, letter)
			mu.Lock()
			outcomes[letter] = out
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return outcomes, fmt.Errorf("harvest run interrupted: %w", err)
	}
	return outcomes, nil
}

func (co *Coordinator) processLetter(ctx context.Context, letter Letter) Outcome {
	start := time.Now()
	out := Outcome{Letter: letter}

	entries, err := co.crawler.Crawl(ctx, letter)
	out.Fresh = len(entries)
	switch {
	case err == nil:
	case errors.Is(err, ErrRetryBudgetExhausted):
		// Whatever was accumulated before the failure is still merged; the
		// outcome keeps the error so the run report can flag the letter.
		out.Partial = true
		out.Err = err
	default:
		out.Err = err
		out.Duration = time.Since(start)
		co.finish(ctx, out)
		return out
	}

	written, mergeErr := co.mergeAndPersist(letter, entries)
	if mergeErr != nil {
		// Keep the crawl error from the partial path alongside the merge
		// failure; both matter to the run report.
		out.Err = errors.Join(out.Err, mergeErr)
	} else {
		out.Written = written
		EntriesWritten.Add(float64(written))
	}
	out.Duration = time.Since(start)
	co.finish(ctx, out)
	return out
}

// mergeAndPersist reconciles fresh entries with the prior snapshot and writes
// the letter's output file. A missing prior file is an empty prior set.
func (co *Coordinator) mergeAndPersist(letter Letter, fresh []string) (int, error) {
	prior, err := co.store.Load(letter)
	if err != nil {
		return 0, fmt.Errorf("load prior entries for %s: %w", letter, err)
	}
	merged := Merge(prior, fresh, co.policy)
	if err := co.store.Save(letter, merged); err != nil {
		return 0, fmt.Errorf("save entries for %s: %w", letter, err)
	}
	return len(merged), nil
}

func (co *Coordinator) finish(ctx context.Context, out Outcome) {
	if co.emitter != nil {
		co.emitter.Emit(progress.Event{
			RunID:   co.runID,
			TS:      time.Now().UTC(),
			Letter:  string(out.Letter),
			Message: progress.DoneMessage,
		})
	}

	fields := []zap.Field{
		zap.String("letter", string(out.Letter)),
		zap.Int("fresh", out.Fresh),
		zap.Int("written", out.Written),
		zap.Duration("duration", out.Duration),
	}
	if out.Err != nil {
		fields = append(fields, zap.Bool("partial", out.Partial), zap.Error(out.Err))
		co.logger.Warn("letter finished with error", fields...)
	} else {
		co.logger.Info("letter finished", fields...)
	}

	if co.recorder == nil {
		return
	}
	rec := RunRecord{
		RunID:      co.runID.String(),
		Letter:     string(out.Letter),
		Fresh:      out.Fresh,
		Written:    out.Written,
		DurationMs: out.Duration.Milliseconds(),
		Partial:    out.Partial,
		FinishedAt: time.Now().UTC(),
	}
	if out.Err != nil {
		rec.ErrorText = out.Err.Error()
	}
	if err := co.recorder.Record(ctx, rec); err != nil {
		co.logger.Warn("record run history failed",
			zap.String("letter", string(out.Letter)), zap.Error(err))
	}
}
