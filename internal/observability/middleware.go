package observability

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// statusWriter wraps [http.ResponseWriter] to capture the status code.
type statusWriter struct {
	http.ResponseWriter

	statusCode int
	written    bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.written {
		sw.statusCode = code
		sw.written = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(buf []byte) (int, error) {
	if !sw.written {
		sw.statusCode = http.StatusOK
		sw.written = true
	}
	return sw.ResponseWriter.Write(buf)
}

// HTTPMiddleware creates a span per request and records request metrics.
// Metrics are labelled with the route pattern matched by a [http.ServeMux]
// inside next, or "other" when nothing matched. Span names use
// "METHOD route" once a route is known. m may be nil.
func HTTPMiddleware(tracer trace.Tracer, m *Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		start := time.Now()
		parentCtx := otel.GetTextMapPropagator().Extract(hr.Context(), propagation.HeaderCarrier(hr.Header))

		ctx, span := tracer.Start(parentCtx, hr.Method+" "+hr.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(hr.Method),
				attribute.String("http.target", hr.URL.Path),
			),
		)
		defer span.End()

		sw := &statusWriter{ResponseWriter: rw, statusCode: http.StatusOK}
		req := hr.WithContext(ctx)
		next.ServeHTTP(sw, req)

		route := routeOf(req)
		if route != otherRoute {
			span.SetName(hr.Method + " " + route)
			span.SetAttributes(attribute.String("http.route", route))
		}
		span.SetAttributes(semconv.HTTPResponseStatusCode(sw.statusCode))
		if sw.statusCode >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(sw.statusCode))
		}
		m.ObserveRequest(route, hr.Method, sw.statusCode, time.Since(start))
	})
}

const otherRoute = "other"

// routeOf returns the path part of the pattern the mux matched for req.
func routeOf(req *http.Request) string {
	if req.Pattern == "" {
		return otherRoute
	}
	if _, path, ok := strings.Cut(req.Pattern, " "); ok {
		return path
	}
	return req.Pattern
}
