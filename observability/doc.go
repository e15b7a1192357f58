// Package observability provides OpenTelemetry tracing and metrics for the
// generator.
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("focusgroup"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanGenerate)
//	defer span.End()
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("focusgroup"))
//	metrics, err := observability.NewMetrics(observability.Meter("focusgroup"))
//	metrics.RecordFallback(ctx, "openai", "anthropic", "RATE_LIMITED")
//
// Without Init calls the global no-op providers are used.
package observability
