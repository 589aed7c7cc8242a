// Package queue provides the event source that feeds worker contexts.
//
// A [Source] hands out the events of one run in sequence. Workers pull
// events with [Source.Next] until the source is drained, at which point
// Next returns [ErrDrained].
//
// # Pacing
//
// A source may be rate-limited with [WithRate]. Pacing uses a token-bucket
// limiter (golang.org/x/time/rate); Next blocks until a token is available
// or the context is cancelled.
//
//	src := queue.NewSource(runID, 100, 3, queue.WithRate(50, 10))
//	for {
//	    e, err := src.Next(ctx)
//	    if errors.Is(err, queue.ErrDrained) {
//	        break
//	    }
//	    // process e
//	}
//
// # Postponed tracks
//
// Tracks classified for postponement are returned to the source with
// [Source.Postpone]. They are appended, marked as postponed, to the next
// event the source hands out.
package queue
