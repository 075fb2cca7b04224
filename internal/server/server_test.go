package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/dataprep-cli/internal/export"
	"github.com/KaramelBytes/dataprep-cli/internal/observability"
	"github.com/KaramelBytes/dataprep-cli/internal/report"
)

const salesCSV = "x,y,c\n1,10,a\n2,,b\n3,30,\n100,40,b\n"

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func newTestServer(t *testing.T, cfg Config) (http.Handler, *observability.Metrics) {
	t.Helper()
	m, err := observability.NewMetrics()
	require.NoError(t, err)
	return New(cfg, nil, nil, m).Handler(), m
}

func uploadRequest(t *testing.T, target, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	return e
}

func TestRoot(t *testing.T) {
	t.Parallel()
	h, m := newTestServer(t, DefaultConfig())

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Hello World"}`, rec.Body.String())
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/clean", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `dataprep_requests_total{code="404",method="GET",route="other"} 1`)
	assert.NotContains(t, rec.Body.String(), `route="/nope"`)
}

func TestClean_CSV(t *testing.T) {
	t.Parallel()
	h, m := newTestServer(t, DefaultConfig())

	rec := serve(h, uploadRequest(t, "/clean?strategy=mean", "sales.csv", salesCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, export.FormatCSV.ContentType(), rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="cleaned_sales.csv"`)
	assert.Equal(t, "1", rec.Header().Get("X-Outliers-Replaced"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "x,y,c", lines[0])
	assert.True(t, strings.HasSuffix(lines[3], ",b"), "missing category filled with the mode: %s", lines[3])

	metrics := serve(m.Handler(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, metrics.Body.String(), `dataprep_rows_processed_total{operation="clean"} 4`)
	assert.Contains(t, metrics.Body.String(), `dataprep_requests_total{code="200",method="POST",route="/clean"} 1`)
}

func TestClean_Parquet(t *testing.T) {
	t.Parallel()
	h, _ := newTestServer(t, DefaultConfig())

	rec := serve(h, uploadRequest(t, "/clean?format=parquet&k=2&weights=uniform", "sales.csv", salesCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, export.FormatParquet.ContentType(), rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PAR1")))
}

func TestClean_Errors(t *testing.T) {
	t.Parallel()
	h, _ := newTestServer(t, DefaultConfig())

	tests := []struct {
		name   string
		req    *http.Request
		status int
		msg    string
	}{
		{"unsupported", uploadRequest(t, "/clean", "notes.txt", "hello"), http.StatusBadRequest, ".txt"},
		{"empty", uploadRequest(t, "/clean", "empty.csv", ""), http.StatusBadRequest, "empty"},
		{"ragged", uploadRequest(t, "/clean", "bad.csv", "a,b\n1\n"), http.StatusBadRequest, "row"},
		{"all missing", uploadRequest(t, "/clean", "gap.csv", "x,y\n1,\n2,\n"), http.StatusBadRequest, `"y"`},
		{"bad k", uploadRequest(t, "/clean?k=0", "sales.csv", salesCSV), http.StatusBadRequest, "k"},
		{"bad strategy", uploadRequest(t, "/clean?strategy=median", "sales.csv", salesCSV), http.StatusBadRequest, "median"},
		{"bad format", uploadRequest(t, "/clean?format=json", "sales.csv", salesCSV), http.StatusBadRequest, "json"},
		{"not multipart", httptest.NewRequest(http.MethodPost, "/clean", strings.NewReader("x")), http.StatusBadRequest, "multipart"},
	}
	for _, tt := range tests {
		rec := serve(h, tt.req)
		assert.Equal(t, tt.status, rec.Code, tt.name)
		e := decodeError(t, rec)
		assert.Contains(t, e.Error, tt.msg, tt.name)
		assert.Equal(t, rec.Header().Get(RequestIDHeader), e.RequestID, tt.name)
	}
}

func TestUpload_MissingField(t *testing.T) {
	t.Parallel()
	h, _ := newTestServer(t, DefaultConfig())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "1"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/missing", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := serve(h, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error, `"file"`)
}

func TestUpload_TooLarge(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.MaxUploadBytes = 64
	h, _ := newTestServer(t, cfg)

	rec := serve(h, uploadRequest(t, "/summary", "big.csv", "x\n"+strings.Repeat("1\n", 100)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "upload exceeds the 64 B limit", decodeError(t, rec).Error)
}

func TestSummary(t *testing.T) {
	t.Parallel()
	h, _ := newTestServer(t, DefaultConfig())

	rec := serve(h, uploadRequest(t, "/summary", "sales.csv", salesCSV))
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		File    string           `json:"file"`
		Rows    int              `json:"rows"`
		Summary []map[string]any `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "sales.csv", got.File)
	assert.Equal(t, 4, got.Rows)
	require.Len(t, got.Summary, 2)
	assert.Equal(t, "x", got.Summary[0]["column"])
	assert.InDelta(t, 26.5, got.Summary[0]["mean"], 1e-9)
	assert.EqualValues(t, 3, got.Summary[1]["count"])

	rec = serve(h, uploadRequest(t, "/summary?format=html", "sales.csv", salesCSV))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Summary Statistics")

	rec = serve(h, uploadRequest(t, "/summary?format=markdown", "sales.csv", salesCSV))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "[MISSING VALUES]")

	rec = serve(h, uploadRequest(t, "/summary?format=pdf", "sales.csv", salesCSV))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMissing(t *testing.T) {
	t.Parallel()
	h, _ := newTestServer(t, DefaultConfig())

	rec := serve(h, uploadRequest(t, "/missing", "sales.csv", salesCSV))
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		RowsWithMissing []int `json:"rows_with_missing"`
		TotalRows       int   `json:"total_rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []int{1, 2}, got.RowsWithMissing)
	assert.Equal(t, 4, got.TotalRows)

	rec = serve(h, uploadRequest(t, "/missing/chart", "sales.csv", salesCSV))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), pngMagic))

	rec = serve(h, uploadRequest(t, "/missing/chart", "full.csv", "x\n1\n2\n"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"`+report.NoMissingText+`"}`, rec.Body.String())
}

func TestOutliers(t *testing.T) {
	t.Parallel()
	h, _ := newTestServer(t, DefaultConfig())

	rec := serve(h, uploadRequest(t, "/outliers", "sales.csv", salesCSV))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"x":1,"y":0}`, rec.Body.String())

	rec = serve(h, uploadRequest(t, "/outliers/chart", "sales.csv", salesCSV))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), pngMagic))

	rec = serve(h, uploadRequest(t, "/outliers/chart", "text.csv", "c\na\nb\n"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"`+noNumericText+`"}`, rec.Body.String())
}

func TestReport(t *testing.T) {
	t.Parallel()
	h, _ := newTestServer(t, DefaultConfig())

	rec := serve(h, uploadRequest(t, "/report", "sales.csv", salesCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="report_sales.xlsx"`)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{
		report.SheetData, report.SheetCleaned, report.SheetSummary, report.SheetMissing, report.SheetOutliers,
	}, f.GetSheetList())
}

func TestReport_InfiniteCells(t *testing.T) {
	t.Parallel()
	h, _ := newTestServer(t, DefaultConfig())

	data := "x,y\n1,1\n2,2\n3,inf\n4,4\n5,5\n"
	rec := serve(h, uploadRequest(t, "/report", "inf.csv", data))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(h, uploadRequest(t, "/outliers/chart", "inf.csv", data))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), pngMagic))
}

func TestDashboard(t *testing.T) {
	t.Parallel()
	h, _ := newTestServer(t, DefaultConfig())

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="file"`)
	assert.Contains(t, rec.Body.String(), "32 MiB")
	assert.Contains(t, rec.Body.String(), rec.Header().Get(RequestIDHeader))

	rec = serve(h, uploadRequest(t, "/dashboard", "sales.csv", salesCSV))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Outlier Analysis")
	assert.Contains(t, rec.Body.String(), "Cleaned Data")

	rec = serve(h, uploadRequest(t, "/dashboard", "notes.txt", "x"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "notes.txt")
	assert.Contains(t, rec.Body.String(), `name="file"`)
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusBadRequest, statusFor(badRequest("x")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, statusFor(&uploadTooLargeError{limit: 1}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
	assert.Equal(t, "internal server error", errorMessage(assert.AnError, http.StatusInternalServerError))
}
