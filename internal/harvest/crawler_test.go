package harvest

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lexharvest/lexharvest/internal/progress"
)

// fakeFetcher returns 200 with the URL as body, optionally failing a URL a
// fixed number of times first. It tracks per-URL call counts and the maximum
// number of fetches in flight at once.
type fakeFetcher struct {
	mu          sync.Mutex
	failures    map[string]int
	calls       map[string]int
	delay       time.Duration
	inFlight    int
	maxInFlight int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		failures: make(map[string]int),
		calls:    make(map[string]int),
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (int, []byte, error) {
	f.mu.Lock()
	f.calls[url]++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	fail := f.failures[url] > 0
	if fail {
		f.failures[url]--
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if fail {
		return http.StatusInternalServerError, nil, nil
	}
	return http.StatusOK, []byte(url), nil
}

func (f *fakeFetcher) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func (f *fakeFetcher) peakConcurrency() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

// fakeExtractor maps page URLs to scripted results.
type fakeExtractor struct {
	pages map[string]PageResult
}

func (e *fakeExtractor) Extract(pageURL string, _ []byte) (PageResult, error) {
	return e.pages[pageURL], nil
}

// captureEmitter records every emitted event.
type captureEmitter struct {
	mu     sync.Mutex
	events []progress.Event
}

func (c *captureEmitter) Emit(evt progress.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
}

func (c *captureEmitter) all() []progress.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]progress.Event(nil), c.events...)
}

func testIndexURL(letter Letter) string {
	return "https://browse.test/browse.php?character=" + string(letter)
}

func fastRetry(maxAttempts int) *LinearRetryPolicy {
	return &LinearRetryPolicy{MaxAttempts: maxAttempts, BaseDelay: time.Millisecond}
}

func TestLetterCrawler_PaginationTerminates(t *testing.T) {
	t.Parallel()
	first := testIndexURL("A")
	fetcher := newFakeFetcher()
	extractor := &fakeExtractor{pages: map[string]PageResult{
		first:                    {Entries: []string{"aa", "ab"}, NextURL: "https://browse.test/p2"},
		"https://browse.test/p2": {Entries: []string{"ac"}, NextURL: "https://browse.test/p3"},
		"https://browse.test/p3": {Entries: []string{"ad"}},
	}}
	emitter := &captureEmitter{}

	c := NewLetterCrawler(fetcher, extractor, fastRetry(3), testIndexURL, emitter, uuid.New(), nil)
	entries, err := c.Crawl(context.Background(), "A")

	require.NoError(t, err)
	require.Equal(t, []string{"aa", "ab", "ac", "ad"}, entries)
	require.Equal(t, 1, fetcher.callCount(first))
	require.Equal(t, 1, fetcher.callCount("https://browse.test/p3"))

	events := emitter.all()
	require.Len(t, events, 3)
	require.Equal(t, first, events[0].Message)
	require.Equal(t, "A", events[0].Letter)
}

func TestLetterCrawler_RetriesSameURLAndResetsAttempts(t *testing.T) {
	t.Parallel()
	first := testIndexURL("B")
	second := "https://browse.test/b2"
	fetcher := newFakeFetcher()
	// Both pages are flaky; each must recover independently because the
	// attempt counter resets on success.
	fetcher.failures[first] = 2
	fetcher.failures[second] = 2
	extractor := &fakeExtractor{pages: map[string]PageResult{
		first:  {Entries: []string{"ba"}, NextURL: second},
		second: {Entries: []string{"bb"}},
	}}

	c := NewLetterCrawler(fetcher, extractor, fastRetry(2), testIndexURL, nil, uuid.New(), nil)
	entries, err := c.Crawl(context.Background(), "B")

	require.NoError(t, err)
	require.Equal(t, []string{"ba", "bb"}, entries)
	require.Equal(t, 3, fetcher.callCount(first))
	require.Equal(t, 3, fetcher.callCount(second))
}

func TestLetterCrawler_RetryBudgetExhausted(t *testing.T) {
	t.Parallel()
	first := testIndexURL("C")
	failing := "https://browse.test/c2"
	fetcher := newFakeFetcher()
	fetcher.failures[failing] = 1000
	extractor := &fakeExtractor{pages: map[string]PageResult{
		first: {Entries: []string{"ca", "cb"}, NextURL: failing},
	}}

	c := NewLetterCrawler(fetcher, extractor, fastRetry(2), testIndexURL, nil, uuid.New(), nil)
	entries, err := c.Crawl(context.Background(), "C")

	require.ErrorIs(t, err, ErrRetryBudgetExhausted)
	// MaxAttempts+1 total attempts on the failing page, not per letter.
	require.Equal(t, 3, fetcher.callCount(failing))
	require.Equal(t, 1, fetcher.callCount(first))
	// Entries accumulated before the failure are still returned.
	require.Equal(t, []string{"ca", "cb"}, entries)
}

func TestLetterCrawler_FirstPageNeverSucceeds(t *testing.T) {
	t.Parallel()
	first := testIndexURL("D")
	fetcher := newFakeFetcher()
	fetcher.failures[first] = 1000
	extractor := &fakeExtractor{pages: map[string]PageResult{}}

	c := NewLetterCrawler(fetcher, extractor, fastRetry(1), testIndexURL, nil, uuid.New(), nil)
	entries, err := c.Crawl(context.Background(), "D")

	require.ErrorIs(t, err, ErrRetryBudgetExhausted)
	require.Empty(t, entries)
	require.Equal(t, 2, fetcher.callCount(first))
}

func TestLetterCrawler_ContextCanceled(t *testing.T) {
	t.Parallel()
	first := testIndexURL("E")
	fetcher := newFakeFetcher()
	fetcher.failures[first] = 1000

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewLetterCrawler(fetcher, &fakeExtractor{}, fastRetry(10), testIndexURL, nil, uuid.New(), nil)
	_, err := c.Crawl(ctx, "E")
	require.ErrorIs(t, err, context.Canceled)
}
