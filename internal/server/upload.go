package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/KaramelBytes/dataprep-cli/internal/clean"
	"github.com/KaramelBytes/dataprep-cli/internal/loader"
	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

const (
	uploadField = "file"
	// multipart parts above this size spill to temporary files
	formMemory = 8 << 20
)

// readTable loads the uploaded dataset of r. The body is capped at the
// configured upload size.
func (s *Server) readTable(w http.ResponseWriter, r *http.Request) (*table.Table, error) {
	if r.ContentLength > s.cfg.MaxUploadBytes {
		return nil, &uploadTooLargeError{limit: s.cfg.MaxUploadBytes}
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		return nil, s.uploadError(err)
	}
	f, hdr, err := r.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, badRequest("missing %q form field", uploadField)
		}
		return nil, s.uploadError(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, s.uploadError(err)
	}
	t, err := loader.Load(hdr.Filename, data, s.cfg.Loader)
	if err != nil {
		return nil, err
	}
	s.log.DebugContext(r.Context(), "dataset loaded",
		"file", t.Name, "rows", t.Rows(), "columns", t.Width(), "request_id", RequestID(r.Context()))
	return t, nil
}

func (s *Server) uploadError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return &uploadTooLargeError{limit: mbe.Limit}
	}
	return badRequest("invalid multipart upload: %v", err)
}

// pipelineOptions copies the base options and applies the request's
// strategy, k and weights parameters.
func (s *Server) pipelineOptions(r *http.Request) (clean.Options, error) {
	opt := s.cfg.Pipeline
	q := r.URL.Query()
	strategy := q.Get("strategy")
	if strategy == "" {
		strategy = r.PostFormValue("strategy")
	}
	if strategy != "" {
		st, err := clean.ParseStrategy(strategy)
		if err != nil {
			return opt, badRequest("%v", err)
		}
		opt.Strategy = st
	}
	if v := q.Get("k"); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil || k < 1 {
			return opt, badRequest("invalid k %q: must be a positive integer", v)
		}
		opt.Neighbors = k
	}
	if v := q.Get("weights"); v != "" {
		w, err := clean.ParseWeighting(v)
		if err != nil {
			return opt, badRequest("%v", err)
		}
		opt.Weighting = w
	}
	if err := opt.Validate(); err != nil {
		return opt, badRequest("%v", err)
	}
	return opt, nil
}

// runPipeline cleans t with the request's options.
func (s *Server) runPipeline(r *http.Request, t *table.Table, op string) (*clean.Result, error) {
	opt, err := s.pipelineOptions(r)
	if err != nil {
		return nil, err
	}
	res, err := clean.Run(t, opt)
	if err != nil {
		return nil, err
	}
	s.metrics.AddRows(op, t.Rows())
	ctx := r.Context()
	for _, warn := range res.Warnings {
		s.log.WarnContext(ctx, warn, "file", t.Name, "request_id", RequestID(ctx))
	}
	s.log.InfoContext(ctx, "dataset cleaned",
		"file", t.Name,
		"strategy", string(opt.Strategy),
		"imputed", res.Imputed,
		"outliers_replaced", res.ReplacedTotal(),
		"request_id", RequestID(ctx))
	return res, nil
}
