// Package server exposes the cleaning pipeline and the analysis reports over
// HTTP. Datasets arrive as multipart uploads in the "file" field.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/KaramelBytes/dataprep-cli/internal/clean"
	"github.com/KaramelBytes/dataprep-cli/internal/loader"
	"github.com/KaramelBytes/dataprep-cli/internal/observability"
	"github.com/KaramelBytes/dataprep-cli/internal/plotpage"
)

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-ID"

// Config holds the per-server settings. Pipeline is the base every request
// copies before applying its own query parameters.
type Config struct {
	MaxUploadBytes int64
	Pipeline       clean.Options
	Loader         loader.Options
	PreviewRows    int
}

// DefaultConfig returns a 32 MiB upload cap and the default pipeline.
func DefaultConfig() Config {
	return Config{
		MaxUploadBytes: 32 << 20,
		Pipeline:       clean.DefaultOptions(),
		Loader:         loader.DefaultOptions(),
		PreviewRows:    plotpage.DefaultPreviewRows,
	}
}

// Server routes dataset requests.
type Server struct {
	cfg     Config
	log     *slog.Logger
	tracer  trace.Tracer
	metrics *observability.Metrics
}

// New creates a server. A nil logger, tracer or metrics disables that concern.
func New(cfg Config, log *slog.Logger, tracer trace.Tracer, m *observability.Metrics) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultConfig().MaxUploadBytes
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("dataprep")
	}
	return &Server{cfg: cfg, log: log, tracer: tracer, metrics: m}
}

// Handler returns the routed handler wrapped in request id, tracing and
// metrics middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.Handle("GET /healthz", observability.HealthHandler())
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	mux.HandleFunc("POST /clean", s.handleClean)
	mux.HandleFunc("POST /summary", s.handleSummary)
	mux.HandleFunc("POST /missing", s.handleMissing)
	mux.HandleFunc("POST /missing/chart", s.handleMissingChart)
	mux.HandleFunc("POST /outliers", s.handleOutliers)
	mux.HandleFunc("POST /outliers/chart", s.handleOutliersChart)
	mux.HandleFunc("POST /report", s.handleReport)
	mux.HandleFunc("GET /dashboard", s.handleDashboardForm)
	mux.HandleFunc("POST /dashboard", s.handleDashboard)

	return withRequestID(observability.HTTPMiddleware(s.tracer, s.metrics, mux))
}

type ctxKey struct{}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the id assigned to the request carried by ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.ErrorContext(ctx, "failed to encode JSON response", "error", err)
	}
}
