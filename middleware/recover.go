package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/xraph/simflow/event"
)

// Recover returns middleware that recovers from panics in hook handlers.
// Panics are converted to errors and logged with a stack trace.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, e *event.Event, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("event handler panicked",
					slog.String("event_id", e.ID.String()),
					slog.Int("event_seq", e.Seq),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = fmt.Errorf("panic in event %d: %v", e.Seq, r)
			}
		}()
		return next(ctx)
	}
}
