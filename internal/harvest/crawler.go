package harvest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lexharvest/lexharvest/internal/progress"
)

// LetterCrawler drives one letter's pagination loop: fetch, extract, follow
// the next-link until it runs out, retrying a failing page with linear
// backoff. One crawler serves a whole run; Crawl may be called concurrently
// for different letters.
type LetterCrawler struct {
	fetcher   Fetcher
	extractor Extractor
	retry     *LinearRetryPolicy
	indexURL  func(Letter) string
	emitter   progress.Emitter
	runID     uuid.UUID
	logger    *zap.Logger
}

// NewLetterCrawler constructs a crawler scoped to a single run.
func NewLetterCrawler(
	fetcher Fetcher,
	extractor Extractor,
	retry *LinearRetryPolicy,
	indexURL func(Letter) string,
	emitter progress.Emitter,
	runID uuid.UUID,
	logger *zap.Logger,
) *LetterCrawler {
	if retry == nil {
		retry = NewLinearRetryPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LetterCrawler{
		fetcher:   fetcher,
		extractor: extractor,
		retry:     retry,
		indexURL:  indexURL,
		emitter:   emitter,
		runID:     runID,
		logger:    logger,
	}
}

// Crawl walks the letter's pagination chain and returns every entry found.
// On a fatal failure the entries accumulated so far are still returned
// alongside an error wrapping ErrRetryBudgetExhausted. Pagination never
// advances past a failing page; the same URL is retried until it succeeds or
// the budget runs out.
func (c *LetterCrawler) Crawl(ctx context.Context, letter Letter) ([]string, error) {
	url := c.indexURL(letter)
	attempt := 0
	var entries []string

	for url != "" {
		if err := ctx.Err(); err != nil {
			return entries, fmt.Errorf("letter %s: %w", letter, err)
		}
		c.emit(letter, url)

		status, body, err := c.fetcher.Fetch(ctx, url)
		if err == nil && status == http.StatusOK {
			page, perr := c.extractor.Extract(url, body)
			if perr != nil {
				// Unparseable body counts as a failed attempt on the same URL.
				err = perr
			} else {
				PagesFetched.Inc()
				entries = append(entries, page.Entries...)
				attempt = 0
				url = page.NextURL
				continue
			}
		}

		FetchFailures.Inc()
		attempt++
		if !c.retry.ShouldRetry(attempt) {
			LettersFailed.Inc()
			c.logger.Error("abandoning letter",
				zap.String("letter", string(letter)),
				zap.String("url", url),
				zap.Int("attempts", attempt),
				zap.Int("entries_so_far", len(entries)),
			)
			return entries, fmt.Errorf("letter %s: %s after %d attempts: %w",
				letter, url, attempt, ErrRetryBudgetExhausted)
		}

		delay := c.retry.Backoff(attempt)
		c.logger.Warn("fetch failed, backing off",
			zap.String("letter", string(letter)),
			zap.String("url", url),
			zap.Int("status", status),
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
		)
		Retries.Inc()
		if err := sleep(ctx, delay); err != nil {
			return entries, fmt.Errorf("letter %s: %w", letter, err)
		}
	}
	return entries, nil
}

func (c *LetterCrawler) emit(letter Letter, message string) {
	if c.emitter == nil {
		return
	}
	c.emitter.Emit(progress.Event{
		RunID:   c.runID,
		TS:      time.Now().UTC(),
		Letter:  string(letter),
		Message: message,
	})
}

// sleep blocks for d or until ctx is canceled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
