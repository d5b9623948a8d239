// Package sinks provides Sink implementations for the progress Hub.
package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/lexharvest/lexharvest/internal/progress"
)

// LogSink emits structured logs for progress streams. It replaces the
// interactive per-letter display with something that survives a pipe.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a Zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs each event in the batch using structured fields.
func (s *LogSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		s.logger.Info("progress",
			zap.String("run_id", evt.RunID.String()),
			zap.String("letter", evt.Letter),
			zap.String("message", evt.Message),
		)
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
