// Package trace records what the front end does while it runs: CLI phases,
// per-file passes, query body executions and node verifications.
//
// Events carry a scope; the tracer level decides which scopes are kept:
//
//	off     nothing
//	error   nothing is streamed, a ring keeps events for a dump at exit
//	phase   ScopeDriver and ScopePass
//	detail  plus ScopeQuery (body executions, input writes)
//	debug   plus ScopeNode (memoized nodes verified without running)
//
// Enable it from the command line:
//
//	dada check --trace=- --trace-level=detail src/
//
// The tracer travels in a context:
//
//	ctx = trace.WithTracer(ctx, t)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "check", 0)
//	defer span.End("")
package trace
