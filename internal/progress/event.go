// Package progress defines the event structures emitted by crawl tasks.
package progress

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DoneMessage is the terminal message emitted once a letter's pipeline has
// finished, successfully or not. Every other message is the URL currently
// being fetched.
const DoneMessage = "Done"

// Event captures one progress milestone for a single letter.
type Event struct {
	// RunID identifies the harvest run the event belongs to.
	RunID uuid.UUID
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Letter is the crawl unit the event refers to ("A".."Z" or "#").
	Letter string
	// Message is either the URL being fetched or DoneMessage.
	Message string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == uuid.Nil {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	if e.Letter == "" {
		return errors.New("letter is required")
	}
	if e.Message == "" {
		return errors.New("message is required")
	}
	return nil
}

// Done reports whether the event marks the end of a letter's pipeline.
func (e Event) Done() bool {
	return e.Message == DoneMessage
}
