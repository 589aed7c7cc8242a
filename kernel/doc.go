// Package kernel wires all simflow subsystems into an executable host.
// It builds the composite hook dispatchers from registered behavior
// components, runs the coordinating context and the parallel worker
// contexts, and drives event transport through the middleware chain.
//
// A Host executes one run at a time:
//
//	sim, _ := simflow.New(simflow.WithWorkers(4), simflow.WithEventsPerRun(100))
//	host, _ := kernel.New(sim,
//	    kernel.WithComponent(observability.NewMetrics()),
//	    kernel.WithComponent(journal.New(recorder)),
//	)
//	result, err := host.Run(ctx)
//
// The coordinating context is assembled before any worker context
// starts; handler bundles are manufactured fresh for every context.
package kernel
