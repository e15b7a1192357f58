// Package provider defines the generic RequestResponse contract backends
// implement, a Registry of named instances, and composable middleware for
// logging, tracing and metrics.
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithTracing[In, Out]("focusgroup"),
//	    provider.WithMetrics[In, Out](metrics),
//	)(backend)
package provider
