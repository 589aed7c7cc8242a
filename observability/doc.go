// Package observability provides a metrics behavior component backed by
// go-utils counters. The Metrics component contributes a handler for
// every hook category and records system-wide counts of runs, events,
// tracks, steps, and classification decisions.
//
// For per-event tracing and latency histograms, see the middleware
// package: middleware.Tracing() and middleware.Metrics().
package observability
