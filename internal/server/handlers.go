package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/KaramelBytes/dataprep-cli/internal/analysis"
	"github.com/KaramelBytes/dataprep-cli/internal/charts"
	"github.com/KaramelBytes/dataprep-cli/internal/clean"
	"github.com/KaramelBytes/dataprep-cli/internal/export"
	"github.com/KaramelBytes/dataprep-cli/internal/loader"
	"github.com/KaramelBytes/dataprep-cli/internal/plotpage"
	"github.com/KaramelBytes/dataprep-cli/internal/report"
)

const noNumericText = "No numeric columns found in the data."

type messageResponse struct {
	Message string `json:"message"`
}

type summaryResponse struct {
	File    string                `json:"file"`
	Rows    int                   `json:"rows"`
	Summary []analysis.SummaryRow `json:"summary"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, http.StatusOK, messageResponse{Message: "Hello World"})
}

func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.fail(w, r, badRequest("%v", err))
		return
	}
	t, err := s.readTable(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.runPipeline(r, t, "clean")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, res.Table, format); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("X-Outliers-Replaced", strconv.Itoa(res.ReplacedTotal()))
	s.attach(w, buf.Bytes(), format.ContentType(), export.FileName(t.Name, "cleaned_", format))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	switch format {
	case "", "json", "html", "markdown":
	default:
		s.fail(w, r, badRequest("unknown summary format %q (use json, html or markdown)", format))
		return
	}
	t, err := s.readTable(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.AddRows("summary", t.Rows())

	switch format {
	case "html":
		page := plotpage.SummaryPage(t)
		page.RunID = RequestID(r.Context())
		s.writePage(w, r, http.StatusOK, page)
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(analysis.Analyze(t).Markdown()))
	default:
		s.writeJSON(r.Context(), w, http.StatusOK, summaryResponse{
			File:    t.Name,
			Rows:    t.Rows(),
			Summary: analysis.Describe(t),
		})
	}
}

func (s *Server) handleMissing(w http.ResponseWriter, r *http.Request) {
	t, err := s.readTable(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.AddRows("missing", t.Rows())
	s.writeJSON(r.Context(), w, http.StatusOK, analysis.Missing(t))
}

func (s *Server) handleMissingChart(w http.ResponseWriter, r *http.Request) {
	t, err := s.readTable(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.AddRows("missing", t.Rows())
	img, err := charts.MissingValuesPNG(analysis.Missing(t))
	if errors.Is(err, charts.ErrNoMissing) {
		s.writeJSON(r.Context(), w, http.StatusOK, messageResponse{Message: report.NoMissingText})
		return
	}
	if err != nil {
		s.fail(w, r, fmt.Errorf("missing values chart: %w", err))
		return
	}
	s.writePNG(w, img)
}

func (s *Server) handleOutliers(w http.ResponseWriter, r *http.Request) {
	t, err := s.readTable(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.AddRows("outliers", t.Rows())
	s.writeJSON(r.Context(), w, http.StatusOK, analysis.Outliers(t))
}

func (s *Server) handleOutliersChart(w http.ResponseWriter, r *http.Request) {
	t, err := s.readTable(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.AddRows("outliers", t.Rows())
	img, err := charts.OutliersPNG(t, analysis.Outliers(t))
	if errors.Is(err, charts.ErrNoNumeric) {
		s.writeJSON(r.Context(), w, http.StatusOK, messageResponse{Message: noNumericText})
		return
	}
	if err != nil {
		s.fail(w, r, fmt.Errorf("outliers chart: %w", err))
		return
	}
	s.writePNG(w, img)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	t, err := s.readTable(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.runPipeline(r, t, "report")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := report.Write(&buf, t, res); err != nil {
		s.fail(w, r, err)
		return
	}
	s.attach(w, buf.Bytes(), export.FormatXLSX.ContentType(), export.FileName(t.Name, "report_", export.FormatXLSX))
}

func (s *Server) handleDashboardForm(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, http.StatusOK, s.uploadPage(r, ""))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	t, err := s.readTable(w, r)
	if err == nil {
		var res *clean.Result
		if res, err = s.runPipeline(r, t, "dashboard"); err == nil {
			page := plotpage.Dashboard(t, res, s.cfg.PreviewRows)
			page.RunID = RequestID(r.Context())
			s.writePage(w, r, http.StatusOK, page)
			return
		}
	}
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "dashboard failed", "error", err, "request_id", RequestID(r.Context()))
	}
	s.writePage(w, r, code, s.uploadPage(r, errorMessage(err, code)))
}

func (s *Server) uploadPage(r *http.Request, msg string) *plotpage.Page {
	page := plotpage.UploadPage(&plotpage.UploadForm{
		Accept:     strings.Join(loader.Extensions(), ","),
		MaxUpload:  humanize.IBytes(uint64(s.cfg.MaxUploadBytes)),
		Strategies: []string{string(clean.StrategyKNN), string(clean.StrategyMean)},
		Error:      msg,
	})
	page.RunID = RequestID(r.Context())
	return page
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, code int, page *plotpage.Page) {
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		s.fail(w, r, fmt.Errorf("render page: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) writePNG(w http.ResponseWriter, img []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	_, _ = w.Write(img)
}

func (s *Server) attach(w http.ResponseWriter, body []byte, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write(body)
}
