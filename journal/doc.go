// Package journal is a behavior component that bridges lifecycle
// milestones to a durable journal backend.
//
// Every run, event, and track boundary emits a structured entry through
// the [Recorder] interface. The component assigns severity levels (info
// for normal boundaries, critical for failed runs) and metadata such as
// sequence numbers and elapsed time.
//
// # Usage
//
//	j := journal.New(journal.RecorderFunc(func(ctx context.Context, e *journal.Entry) error {
//	    return backend.Append(ctx, e)
//	}))
//	assembler.Add(j)
//
// # Selective filtering
//
//	journal.New(recorder,
//	    journal.WithActions(
//	        journal.ActionRunBegin,
//	        journal.ActionRunEnd,
//	    ),
//	)
package journal
