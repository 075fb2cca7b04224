package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/KaramelBytes/dataprep-cli/internal/observability"
)

func TestTracingHandler_InjectsTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "test-svc"))

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})

	logger.InfoContext(trace.ContextWithSpanContext(context.Background(), sc), "test message")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", record["trace_id"])
	assert.Equal(t, "0102030405060708", record["span_id"])
	assert.Equal(t, "test-svc", record["service"])
}

func TestTracingHandler_NoTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(observability.NewTracingHandler(slog.NewJSONHandler(&buf, nil), "dataprep"))
	logger.Info("no span")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	_, hasTraceID := record["trace_id"]
	assert.False(t, hasTraceID)
	assert.Equal(t, "dataprep", record["service"])
}

func TestSetupLogger_LevelAndFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, cleanup := observability.SetupLogger(observability.LogConfig{Level: "warn", Format: "json"}, &buf)
	defer cleanup()

	logger.Info("hidden")
	logger.Warn("shown", "rows", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "shown", record["msg"])
	assert.EqualValues(t, 3, record["rows"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, observability.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelError, observability.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, observability.ParseLevel("loud"))
}

func TestHTTPMiddleware_SpanAndMetrics(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	metrics, err := observability.NewMetrics()
	require.NoError(t, err)
	metrics.AddRows("clean", 12)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /clean", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /items/{id}", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
	})
	mw := observability.HTTPMiddleware(tp.Tracer("test"), metrics, mux)
	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/clean", http.NoBody))
	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", http.NoBody))
	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/2", http.NoBody))
	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/random/path", http.NoBody))

	spans := exporter.GetSpans()
	require.Len(t, spans, 4)
	assert.Equal(t, "POST /clean", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "GET /items/{id}", spans[1].Name)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `dataprep_requests_total{code="500",method="POST",route="/clean"} 1`)
	assert.Contains(t, string(body), `dataprep_requests_total{code="200",method="GET",route="/items/{id}"} 2`)
	assert.Contains(t, string(body), `dataprep_requests_total{code="404",method="GET",route="other"} 1`)
	assert.NotContains(t, string(body), `route="/random/path"`)
	assert.Contains(t, string(body), `dataprep_rows_processed_total{operation="clean"} 12`)
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	observability.HealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestInitTracing(t *testing.T) {
	tracer, shutdown := observability.InitTracing(true)
	_, span := tracer.Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, shutdown(context.Background()))

	tracer, shutdown = observability.InitTracing(false)
	_, span = tracer.Start(context.Background(), "op")
	assert.False(t, span.SpanContext().IsValid())
	require.NoError(t, shutdown(context.Background()))
}
