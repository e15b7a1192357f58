package provider_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/focusgroup/errors"
	"github.com/kbukum/focusgroup/logger"
	"github.com/kbukum/focusgroup/observability"
	"github.com/kbukum/focusgroup/provider"
)

type echoProvider struct{ name string }

func (p *echoProvider) Name() string                       { return p.name }
func (p *echoProvider) IsAvailable(_ context.Context) bool { return true }
func (p *echoProvider) Execute(_ context.Context, in string) (string, error) {
	return "echo:" + in, nil
}

type failingProvider struct{ err error }

func (p *failingProvider) Name() string                       { return "fail" }
func (p *failingProvider) IsAvailable(_ context.Context) bool { return false }
func (p *failingProvider) Execute(_ context.Context, _ string) (string, error) {
	return "", p.err
}

type orderTracker struct {
	inner provider.RequestResponse[string, string]
	tag   string
	order *[]string
}

func (o *orderTracker) Name() string                         { return o.inner.Name() }
func (o *orderTracker) IsAvailable(ctx context.Context) bool { return o.inner.IsAvailable(ctx) }
func (o *orderTracker) Execute(ctx context.Context, in string) (string, error) {
	*o.order = append(*o.order, o.tag+":before")
	out, err := o.inner.Execute(ctx, in)
	*o.order = append(*o.order, o.tag+":after")
	return out, err
}

func TestChain_Empty(t *testing.T) {
	wrapped := provider.Chain[string, string]()(&echoProvider{name: "test"})
	out, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || out != "echo:hello" || wrapped.Name() != "test" {
		t.Fatalf("got %q, %v, name %q", out, err, wrapped.Name())
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(tag string) provider.Middleware[string, string] {
		return func(inner provider.RequestResponse[string, string]) provider.RequestResponse[string, string] {
			return &orderTracker{inner: inner, tag: tag, order: &order}
		}
	}
	wrapped := provider.Chain(mw("A"), mw("B"), mw("C"))(&echoProvider{name: "test"})
	if _, err := wrapped.Execute(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	want := "A:before B:before C:before C:after B:after A:after"
	if got := strings.Join(order, " "); got != want {
		t.Errorf("order = %q, want %q", got, want)
	}
}

func TestChain_SkipsNil(t *testing.T) {
	var order []string
	tracked := func(inner provider.RequestResponse[string, string]) provider.RequestResponse[string, string] {
		return &orderTracker{inner: inner, tag: "A", order: &order}
	}
	wrapped := provider.Chain(nil, tracked, nil)(&echoProvider{name: "test"})
	if out, err := wrapped.Execute(context.Background(), "x"); err != nil || out != "echo:x" {
		t.Fatalf("got %q, %v", out, err)
	}
	if len(order) != 2 {
		t.Errorf("order = %v", order)
	}
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&logger.Config{Level: "debug", Format: logger.FormatJSON, Writer: &buf}, "test")

	ok := provider.WithLogging[string, string](log)(&echoProvider{name: "openai"})
	if out, err := ok.Execute(context.Background(), "hi"); err != nil || out != "echo:hi" {
		t.Fatalf("got %q, %v", out, err)
	}
	if !strings.Contains(buf.String(), `"provider":"openai"`) || !strings.Contains(buf.String(), "provider call ok") {
		t.Errorf("success log missing: %s", buf.String())
	}

	buf.Reset()
	failing := provider.WithLogging[string, string](log)(&failingProvider{err: errors.RateLimited("openai")})
	if _, err := failing.Execute(context.Background(), "hi"); !errors.IsCode(err, errors.ErrCodeRateLimited) {
		t.Fatalf("error not passed through: %v", err)
	}
	if !strings.Contains(buf.String(), `"code":"RATE_LIMITED"`) {
		t.Errorf("failure log missing code: %s", buf.String())
	}
	if failing.IsAvailable(context.Background()) {
		t.Error("IsAvailable should delegate")
	}
}

func TestWithTracing(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	wrapped := provider.WithTracing[string, string]("focusgroup")(&failingProvider{err: errors.Timeout("anthropic")})
	if _, err := wrapped.Execute(context.Background(), "hi"); err == nil {
		t.Fatal("expected error")
	}

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "focusgroup.fail" {
		t.Errorf("span name = %q", spans[0].Name())
	}
	if spans[0].Status().Code != codes.Error {
		t.Error("expected error status")
	}
	var code string
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "error.code" {
			code = kv.Value.AsString()
		}
	}
	if code != "TIMEOUT" {
		t.Errorf("error.code = %q", code)
	}
}

func TestWithMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())
	metrics, err := observability.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	ok := provider.WithMetrics[string, string](metrics)(&echoProvider{name: "cohere"})
	bad := provider.WithMetrics[string, string](metrics)(&failingProvider{err: errors.Unauthorized("cohere", "")})
	_, _ = ok.Execute(context.Background(), "a")
	_, _ = bad.Execute(context.Background(), "b")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	var total, errs int64
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			sum, isSum := md.Data.(metricdata.Sum[int64])
			if !isSum {
				continue
			}
			for _, dp := range sum.DataPoints {
				switch md.Name {
				case "operation.total":
					total += dp.Value
				case "error.total":
					errs += dp.Value
				}
			}
		}
	}
	if total != 2 || errs != 1 {
		t.Errorf("operation.total = %d, error.total = %d", total, errs)
	}
}
