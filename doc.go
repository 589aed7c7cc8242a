// Package simflow provides a composable lifecycle-hook engine for
// parallel simulation runs. Independently authored behavior components
// attach logic to a fixed set of lifecycle hooks exposed by the host
// kernel, which accepts only one handler per hook category.
//
// The composition layer (package compose) merges the handlers of many
// components into per-category dispatchers that satisfy the same hook
// interfaces as a single hand-written handler, so the kernel cannot
// tell them apart.
//
// # Quick Start
//
//	sim, err := simflow.New(
//	    simflow.WithWorkers(4),
//	    simflow.WithEventsPerRun(1000),
//	)
//	k := kernel.Build(sim,
//	    kernel.WithComponent(observability.New()),
//	    kernel.WithComponent(myComponent),
//	)
//	summary, err := k.Run(ctx)
//
// # Architecture
//
// A run executes on one coordinating (master) context plus N worker
// contexts. Per worker context the assembler runs a build pass: every
// enabled component manufactures a bundle of handlers, the bundles are
// merged into fresh dispatchers, and each non-empty dispatcher is
// registered as the context's sole handler for its category. The master
// context runs a restricted build pass for the run-lifecycle category
// only, before any worker starts.
//
// Conflicting decisions from two components, such as two disagreeing non-default
// track classifications or two generated run records, are configuration
// defects. They surface as synchronous errors that abort the run; there
// is no degraded mode and no retry.
package simflow
