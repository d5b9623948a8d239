package harvest

import "context"

// Fetcher retrieves a single page. Implementations return the HTTP status and
// raw body for any completed request, 200 or not; err is reserved for
// transport-level failures. The crawler treats both the same way.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (status int, body []byte, err error)
}

// Extractor parses one page body into the entries it lists and the absolute
// URL of the next page, resolved against pageURL.
type Extractor interface {
	Extract(pageURL string, body []byte) (PageResult, error)
}

// EntryStore persists per-letter corpora. Load returns an empty set, not an
// error, when no prior file exists for the letter.
type EntryStore interface {
	Load(letter Letter) ([]string, error)
	Save(letter Letter, entries []string) error
}

// Recorder persists per-letter outcomes for post-run inspection.
type Recorder interface {
	Record(ctx context.Context, rec RunRecord) error
}
