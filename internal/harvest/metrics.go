package harvest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesFetched tracks index pages fetched with a 200 response.
	PagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_pages_fetched_total",
		Help: "The total number of index pages fetched successfully.",
	})
	// FetchFailures tracks non-200 responses and transport errors.
	FetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_fetch_failures_total",
		Help: "The total number of failed page fetches, before retry.",
	})
	// Retries tracks backoff-and-retry cycles on a failing page.
	Retries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_retries_total",
		Help: "The total number of fetch retries performed.",
	})
	// LettersFailed tracks letters abandoned after the retry ceiling.
	LettersFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_letters_failed_total",
		Help: "The total number of letters that exhausted their retry budget.",
	})
	// EntriesWritten tracks entries persisted across all letters.
	EntriesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvest_entries_written_total",
		Help: "The total number of entries written to output files.",
	})
)
