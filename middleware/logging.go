package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/simflow/event"
)

// Logging returns middleware that logs event start and completion.
// Per-event logs are emitted at debug level; failures at error level.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, e *event.Event, next Handler) error {
		logger.Debug("event started",
			slog.String("event_id", e.ID.String()),
			slog.Int("event_seq", e.Seq),
			slog.Int("tracks", len(e.Tracks)),
		)

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("event failed",
				slog.String("event_id", e.ID.String()),
				slog.Int("event_seq", e.Seq),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Debug("event completed",
				slog.String("event_id", e.ID.String()),
				slog.Int("event_seq", e.Seq),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}
