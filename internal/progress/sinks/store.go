package sinks

import (
	"context"
	"sync"

	"github.com/lexharvest/lexharvest/internal/progress"
)

// StoreSink keeps the latest message observed per letter in memory. The status
// endpoint reads it while a run is active; tests use it to assert on emitted
// event streams.
type StoreSink struct {
	mu     sync.RWMutex
	latest map[string]string
	done   int
}

// NewStoreSink returns an empty StoreSink.
func NewStoreSink() *StoreSink {
	return &StoreSink{latest: make(map[string]string)}
}

// Consume records the latest message for each letter in the batch.
func (s *StoreSink) Consume(_ context.Context, batch []progress.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, evt := range batch {
		prev, seen := s.latest[evt.Letter]
		if evt.Done() && (!seen || prev != progress.DoneMessage) {
			s.done++
		}
		s.latest[evt.Letter] = evt.Message
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *StoreSink) Close(context.Context) error {
	return nil
}

// Snapshot returns a copy of the latest message per letter.
func (s *StoreSink) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.latest))
	for k, v := range s.latest {
		out[k] = v
	}
	return out
}

// DoneCount reports how many letters have emitted their terminal event.
func (s *StoreSink) DoneCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done
}
