// Package query implements a small demand-driven incremental computation engine.
//
// Inputs are plain key/value cells. Queries are pure functions of inputs and of
// other queries; their results are memoized per key together with the list of
// nodes they read. Every input write bumps the global revision. On the next pull
// a stale node first re-verifies its dependencies in the order they were read
// and only re-runs its body when one of them changed after the node was last
// verified. A re-run that produces an equal value keeps the old changedAt
// revision, so dependents stop there (early cutoff).
//
// Values pushed into an Accumulator during a query execution belong to that
// execution only; a re-run replaces them. Collect gathers them over the
// transitive dependency closure of a query.
//
// Invariants:
//   - One Database writes inputs; Snapshots only read. A write waits until every
//     snapshot is closed, so a snapshot never observes a later revision.
//   - Bodies run without engine locks held. Two readers may race on the same
//     node; the first to finish wins and the other adopts its value.
//   - Reading an unset input, a dependency cycle, or pushing outside a query
//     execution panics with *InvariantError.
package query
