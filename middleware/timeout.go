package middleware

import (
	"context"
	"time"

	"github.com/xraph/simflow/event"
)

// Timeout returns middleware that bounds event processing to d. When the
// deadline expires the derived context is cancelled and the handler is
// expected to return promptly. A non-positive d disables the bound.
func Timeout(d time.Duration) Middleware {
	return func(ctx context.Context, e *event.Event, next Handler) error {
		if d <= 0 {
			return next(ctx)
		}
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next(ctx)
	}
}
