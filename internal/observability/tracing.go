package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "dataprep"

// InitTracing installs the global tracer provider and W3C propagators. With
// tracing disabled a no-op provider is used. Spans are not exported; they
// exist so request logs carry trace and span ids.
func InitTracing(enabled bool) (trace.Tracer, func(context.Context) error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	if !enabled {
		tp := nooptrace.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return tp.Tracer(tracerName), func(context.Context) error { return nil }
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())))
	otel.SetTracerProvider(tp)
	return tp.Tracer(tracerName), tp.Shutdown
}
