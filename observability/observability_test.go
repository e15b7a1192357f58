package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return rec
}

func TestDefaultConfigs(t *testing.T) {
	tc := DefaultTracerConfig("focusgroup")
	if tc.ServiceName != "focusgroup" || tc.Endpoint != "localhost:4318" || tc.SampleRate != 1.0 || !tc.Insecure {
		t.Errorf("unexpected tracer defaults: %+v", tc)
	}
	mc := DefaultMeterConfig("focusgroup")
	if mc.Interval != 15*time.Second || mc.Environment != "development" {
		t.Errorf("unexpected meter defaults: %+v", mc)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tc := range tests {
		if got := sampler(tc.rate).Description(); got != tc.want {
			t.Errorf("sampler(%v) = %q, want %q", tc.rate, got, tc.want)
		}
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("focusgroup", "1.2.3", "staging")
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}
	found := map[string]string{}
	for _, kv := range res.Attributes() {
		found[string(kv.Key)] = kv.Value.Emit()
	}
	if found["service.name"] != "focusgroup" || found["service.version"] != "1.2.3" || found["deployment.environment"] != "staging" {
		t.Errorf("resource attributes: %v", found)
	}
}

func TestSpanAttributesAndError(t *testing.T) {
	rec := installRecorder(t)

	ctx, span := StartSpan(context.Background(), SpanGenerate)
	SetSpanAttribute(ctx, AttrProvider, "openai")
	SetSpanAttribute(ctx, AttrTargetWords, 1800)
	SetSpanAttribute(ctx, "ratio", 0.9)
	SetSpanAttribute(ctx, "ok", true)
	SetSpanAttribute(ctx, "ignored", struct{}{})
	SetSpanError(ctx, errors.New("rate limited"))
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != SpanGenerate {
		t.Errorf("span name = %q", s.Name())
	}
	attrs := map[string]bool{}
	for _, kv := range s.Attributes() {
		attrs[string(kv.Key)] = true
	}
	for _, k := range []string{AttrProvider, AttrTargetWords, "ratio", "ok"} {
		if !attrs[k] {
			t.Errorf("missing attribute %q", k)
		}
	}
	if attrs["ignored"] {
		t.Error("unsupported attribute type should be skipped")
	}
	if s.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", s.Status().Code)
	}
}

func TestSpanHelpersWithoutSpan(t *testing.T) {
	ctx := context.Background()
	SetSpanAttribute(ctx, "key", "value")
	SetSpanError(ctx, errors.New("no span"))
	if SpanFromContext(ctx) == nil {
		t.Fatal("expected non-nil noop span")
	}
}

func TestMetricsRecorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	ctx := context.Background()
	m.RecordOperation(ctx, "focusgroup", "run", "ok", 120*time.Millisecond)
	m.RecordError(ctx, "RATE_LIMITED", "llm.openai")
	m.RecordFallback(ctx, "openai", "anthropic", "RATE_LIMITED")
	m.RecordTranscript(ctx, "anthropic", "English", 1750)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			names[md.Name] = true
		}
	}
	for _, want := range []string{"operation.total", "operation.duration", "error.total", "generation.fallback.total", "transcript.words"} {
		if !names[want] {
			t.Errorf("missing metric %q", want)
		}
	}
}

func TestOperationContext(t *testing.T) {
	rec := installRecorder(t)
	metrics, _ := NewMetrics(noop.NewMeterProvider().Meter("test"))

	oc := NewOperationContext("focusgroup", "run", "req-1", metrics)
	ctx := WithOperationContext(context.Background(), oc)
	if got := OperationContextFromContext(ctx); got != oc {
		t.Fatal("expected operation context from context")
	}
	if OperationContextFromContext(context.Background()) != nil {
		t.Error("expected nil when not set")
	}

	ctx, span := oc.StartSpanForOperation(ctx, SpanRun)
	oc.EndOperation(ctx, span, "error", errors.New("boom"))

	spans := rec.Ended()
	if len(spans) != 1 || spans[0].Name() != SpanRun {
		t.Fatalf("unexpected spans: %v", spans)
	}
	if oc.Duration() <= 0 {
		t.Error("expected positive duration")
	}

	nilMetrics := NewOperationContext("focusgroup", "run", "req-2", nil)
	_, s := nilMetrics.StartSpanForOperation(context.Background(), SpanRun)
	nilMetrics.EndOperation(context.Background(), s, "ok", nil)
}
