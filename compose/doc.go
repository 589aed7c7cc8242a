// Package compose merges the lifecycle handlers of many behavior
// components into per-category composite dispatchers.
//
// The host kernel accepts exactly one handler per hook category. A
// dispatcher implements the same hook interface as a single handler and
// fans every call out, in registration order, to an ordered list of
// sub-handlers. Two categories return a value (track classification and
// run-record generation) and their dispatchers resolve contributions
// deterministically: at most one sub-handler may express a non-default
// opinion per call, and a second disagreeing opinion is a fatal
// configuration defect surfaced as an error.
//
// The Assembler owns the component list and the two-phase build
// protocol: Build runs once per worker context, BuildForMaster runs once
// on the coordinating context and is restricted to the run-lifecycle
// category. Dispatchers are created fresh per build pass and never
// shared across contexts.
package compose
