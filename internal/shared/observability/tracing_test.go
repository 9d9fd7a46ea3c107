package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTracing_EmptyEndpointIsNoop(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
}

func TestLoggerWithTrace(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	if got := LoggerWithTrace(context.Background(), base); got != base {
		t.Fatal("expected logger to be returned unchanged without a span")
	}

	ctx, span := Tracer().Start(context.Background(), "test.span")
	LoggerWithTrace(ctx, base).Info("hello")
	span.End()

	if !strings.Contains(buf.String(), "trace_id=") || !strings.Contains(buf.String(), "span_id=") {
		t.Fatalf("expected trace attributes in log line, got %q", buf.String())
	}
	if len(exporter.GetSpans()) != 1 {
		t.Fatalf("expected one exported span, got %d", len(exporter.GetSpans()))
	}
}
