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
	"go.opentelemetry.io/otel/trace"
)

func TestDefaultConfigs(t *testing.T) {
	tc := DefaultTracerConfig("test-service")
	if tc.ServiceName != "test-service" || tc.Endpoint != "localhost:4318" || tc.SampleRate != 1.0 || !tc.Insecure {
		t.Errorf("unexpected tracer defaults: %+v", tc)
	}
	mc := DefaultMeterConfig("test-service")
	if mc.ServiceName != "test-service" || mc.Interval != 15*time.Second || mc.Environment != "development" {
		t.Errorf("unexpected meter defaults: %+v", mc)
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tt := range tests {
		if got := samplerFor(tt.rate).Description(); got != tt.want {
			t.Errorf("samplerFor(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestNewResource(t *testing.T) {
	res := newResource("svc", "2.0.0", "prod")
	found := map[string]string{}
	for _, kv := range res.Attributes() {
		found[string(kv.Key)] = kv.Value.AsString()
	}
	if found[AttrServiceName] != "svc" || found["service.version"] != "2.0.0" || found["deployment.environment"] != "prod" {
		t.Errorf("unexpected resource attributes: %v", found)
	}
}

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func TestClientSpan_Success(t *testing.T) {
	rec := withRecorder(t)

	_, span := StartClientSpan(context.Background(), "httpclient.issue", "GET", "http://upstream/x")
	EndSpan(span, 200, nil)

	ended := rec.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	s := ended[0]
	if s.Name() != "httpclient.issue" || s.SpanKind() != trace.SpanKindClient {
		t.Errorf("unexpected span %q kind %v", s.Name(), s.SpanKind())
	}
	attrs := map[string]any{}
	for _, kv := range s.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	if attrs[AttrHTTPMethod] != "GET" || attrs[AttrHTTPURL] != "http://upstream/x" || attrs[AttrHTTPStatus] != int64(200) {
		t.Errorf("unexpected attributes: %v", attrs)
	}
	if s.Status().Code == codes.Error {
		t.Error("successful span should not carry error status")
	}
}

func TestClientSpan_Error(t *testing.T) {
	rec := withRecorder(t)

	_, span := StartClientSpan(context.Background(), "httpclient.issue", "POST", "http://upstream/y")
	EndSpan(span, 0, errors.New("dial failed"))

	s := rec.Ended()[0]
	if s.Status().Code != codes.Error || s.Status().Description != "dial failed" {
		t.Errorf("unexpected status: %+v", s.Status())
	}
	for _, kv := range s.Attributes() {
		if string(kv.Key) == AttrHTTPStatus {
			t.Error("status attribute should be absent without a response")
		}
	}
	if len(s.Events()) == 0 {
		t.Error("expected recorded error event")
	}
}

func TestMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	ctx := context.Background()
	m.RecordRequestStart(ctx)
	m.RecordRequestEnd(ctx, "billing", "GET", 200, 20*time.Millisecond)
	m.RecordRequestStart(ctx)
	m.RecordRequestEnd(ctx, "billing", "GET", 0, time.Second)
	m.RecordError(ctx, "billing", "timeout")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if data, ok := md.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[md.Name] += dp.Value
				}
			}
		}
	}
	if sums["request.total"] != 2 {
		t.Errorf("request.total = %d, want 2", sums["request.total"])
	}
	if sums["request.active"] != 0 {
		t.Errorf("request.active = %d, want 0", sums["request.active"])
	}
	if sums["error.total"] != 1 {
		t.Errorf("error.total = %d, want 1", sums["error.total"])
	}
}

func TestMetrics_Noop(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	m.RecordRequestStart(context.Background())
	m.RecordRequestEnd(context.Background(), "c", "HEAD", 204, time.Millisecond)
}

func TestInitTracer_Shutdown(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	tp, err := InitTracer(context.Background(), DefaultTracerConfig("test"))
	if err != nil {
		t.Fatalf("InitTracer: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = tp.Shutdown(ctx)
}
