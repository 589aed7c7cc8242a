// Package middleware provides composable middleware for event execution.
//
// A [Middleware] is a function that wraps the processing of one event
// inside a worker context. Middleware are composed into a chain using
// [Chain] and applied before each event executes. They are applied
// right-to-left: the first middleware in the slice is the outermost
// wrapper.
//
//	// logging → recover → handler
//	chain := middleware.Chain(middleware.Logging(logger), middleware.Recover(logger))
//
// # Built-in Middleware
//
//   - [Logging] logs event sequence, duration, and outcome
//   - [Recover] catches panics in hook handlers and converts them to errors
//   - [Timeout] cancels the event context after a configured duration
//   - [Tracing] wraps execution in an OpenTelemetry span
//   - [Metrics] records per-event duration and outcome counters
//
// # Writing Custom Middleware
//
//	func MyMiddleware() middleware.Middleware {
//	    return func(ctx context.Context, e *event.Event, next middleware.Handler) error {
//	        // pre-processing
//	        err := next(ctx)
//	        // post-processing
//	        return err
//	    }
//	}
//
// Middleware MUST call next to continue the chain unless intentionally
// short-circuiting.
package middleware
