package feedback

import (
	"context"
	"log/slog"
)

// EventSink receives workflow outcome events. The service reports successes
// and business failures through it instead of logging directly, so callers
// decide where events go.
type EventSink interface {
	Success(ctx context.Context, event string, attrs ...any)
	Failure(ctx context.Context, event string, err error, attrs ...any)
}

type slogSink struct {
	logger *slog.Logger
}

// NewSlogSink returns an EventSink that writes structured events to the
// given logger.
func NewSlogSink(logger *slog.Logger) EventSink {
	return &slogSink{logger: logger}
}

func (s *slogSink) Success(ctx context.Context, event string, attrs ...any) {
	s.logger.InfoContext(ctx, event, attrs...)
}

func (s *slogSink) Failure(ctx context.Context, event string, err error, attrs ...any) {
	s.logger.WarnContext(ctx, event, append([]any{"error", err}, attrs...)...)
}

type nopSink struct{}

// NopSink returns an EventSink that discards all events.
func NopSink() EventSink {
	return nopSink{}
}

func (nopSink) Success(context.Context, string, ...any)        {}
func (nopSink) Failure(context.Context, string, error, ...any) {}
